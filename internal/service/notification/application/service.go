package application

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/notification/domain"
	"caddie/internal/service/notification/port"
)

// NotificationService 消费支付完成事件并发送确认邮件。
// 邮件是尽力而为的：发送失败只记录，不会让消息重新投递，
// 避免因邮件服务抖动反复给客户发同一封确认信。
type NotificationService struct {
	email  port.EmailSender
	tracer trace.Tracer
}

// NewNotificationService 创建一个新的通知服务实例
func NewNotificationService(email port.EmailSender, tracer trace.Tracer) *NotificationService {
	return &NotificationService{email: email, tracer: tracer}
}

// HandleOrderConfirmation 处理一条支付完成事件
func (s *NotificationService) HandleOrderConfirmation(ctx context.Context, event *domain.OrderConfirmation) error {
	ctx, span := s.tracer.Start(ctx, "service.HandleOrderConfirmation")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", event.OrderID),
		attribute.String("email.to", event.Email),
	)

	msg := &port.EmailMessage{
		To:      event.Email,
		Subject: fmt.Sprintf("Order Confirmed - %s", event.OrderID),
		HTML:    renderConfirmationHTML(event),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", event.OrderID).
			Msg("failed to send confirmation email")
		return err
	}

	span.AddEvent("Confirmation email sent")
	logger.Ctx(ctx).Info().
		Str("order_id", event.OrderID).
		Str("to", event.Email).
		Msg("confirmation email sent")
	return nil
}

func renderConfirmationHTML(event *domain.OrderConfirmation) string {
	return fmt.Sprintf(`<h1>Thank you for your order!</h1>
<p>Your personalized golf gift set for %s is confirmed.</p>
<ul>
  <li>Order number: <strong>%s</strong></li>
  <li>Gift set: %s x%d</li>
  <li>Total: $%.2f</li>
</ul>
<p>We'll email you again when your order ships.</p>`,
		event.RecipientName, event.OrderID, event.PresetName, event.Quantity,
		float64(event.AmountCents)/100)
}
