package port

import (
	"context"

	"caddie/internal/service/checkout/domain"
)

// OrderEventProducer 定义了订单事件的出站端口
type OrderEventProducer interface {
	// PublishConfirmation 发布支付完成事件，驱动确认邮件
	PublishConfirmation(ctx context.Context, event *domain.ConfirmationEvent) error
	// PublishStatus 发布订单状态变化事件，驱动在线推送
	PublishStatus(ctx context.Context, event *domain.StatusEvent) error
	// Close 释放底层资源
	Close() error
}
