package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"caddie/internal/pkg/mq"
	"caddie/internal/service/checkout/domain"
)

// OrderEventsKafkaAdapter 实现了 port.OrderEventProducer 接口。
// 确认事件与状态事件走两个 topic：前者由通知服务消费发邮件，
// 后者由推送网关广播给在线客户端。消息键用订单号保证同一订单的顺序。
type OrderEventsKafkaAdapter struct {
	confirmationWriter *kafka.Writer
	statusWriter       *kafka.Writer
}

// NewOrderEventsKafkaAdapter 创建一个新的订单事件生产者适配器
func NewOrderEventsKafkaAdapter(confirmationWriter, statusWriter *kafka.Writer) *OrderEventsKafkaAdapter {
	return &OrderEventsKafkaAdapter{
		confirmationWriter: confirmationWriter,
		statusWriter:       statusWriter,
	}
}

func (a *OrderEventsKafkaAdapter) PublishConfirmation(ctx context.Context, event *domain.ConfirmationEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal confirmation event")
	}
	// mq.ProduceMessage 会自动注入追踪上下文
	return mq.ProduceMessage(ctx, a.confirmationWriter, []byte(event.OrderID), eventBytes)
}

func (a *OrderEventsKafkaAdapter) PublishStatus(ctx context.Context, event *domain.StatusEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal status event")
	}
	return mq.ProduceMessage(ctx, a.statusWriter, []byte(event.OrderID), eventBytes)
}

// Close 关闭底层的 Kafka writer
func (a *OrderEventsKafkaAdapter) Close() error {
	err1 := a.confirmationWriter.Close()
	err2 := a.statusWriter.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
