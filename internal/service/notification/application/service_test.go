package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"caddie/internal/service/notification/domain"
	"caddie/internal/service/notification/port"
)

type fakeEmailSender struct {
	sent []*port.EmailMessage
	err  error
}

func (f *fakeEmailSender) Send(_ context.Context, msg *port.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testEvent() *domain.OrderConfirmation {
	return &domain.OrderConfirmation{
		OrderID:       "CC-TEST-001",
		Email:         "buyer@example.com",
		RecipientName: "Jordan Smith",
		PresetName:    "The Signature Set",
		Quantity:      2,
		AmountCents:   49800,
	}
}

func TestHandleOrderConfirmation_SendsEmail(t *testing.T) {
	sender := &fakeEmailSender{}
	svc := NewNotificationService(sender, otel.Tracer("test"))

	err := svc.HandleOrderConfirmation(context.Background(), testEvent())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "buyer@example.com", msg.To)
	assert.Equal(t, "Order Confirmed - CC-TEST-001", msg.Subject)
	assert.Contains(t, msg.HTML, "Jordan Smith")
	assert.Contains(t, msg.HTML, "The Signature Set x2")
	assert.Contains(t, msg.HTML, "$498.00")
}

func TestHandleOrderConfirmation_PropagatesSendError(t *testing.T) {
	sender := &fakeEmailSender{err: errors.New("provider down")}
	svc := NewNotificationService(sender, otel.Tracer("test"))

	err := svc.HandleOrderConfirmation(context.Background(), testEvent())
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}
