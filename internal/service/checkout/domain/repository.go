// internal/service/checkout/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单仓储的接口
type OrderRepository interface {
	// Create 持久化一个新订单
	Create(ctx context.Context, order *Order) error
	// Save 保存订单变更
	Save(ctx context.Context, order *Order) error
	// FindByID 按订单号查找，不存在时返回 ErrOrderNotFound
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindByPaymentSession 按支付会话查找，不存在时返回 ErrOrderNotFound
	FindByPaymentSession(ctx context.Context, sessionID string) (*Order, error)
}

// WebhookEventRepository 记录已处理的 webhook 事件，实现至少一次投递下的去重。
type WebhookEventRepository interface {
	// MarkProcessed 以事件 ID 做 create-if-not-exists，
	// 返回 true 表示第一次见到该事件，false 表示重复投递。
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}
