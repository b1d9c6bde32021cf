package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customizer "caddie/internal/service/customizer/domain"
)

func newPaidableOrder(t *testing.T) *Order {
	t.Helper()
	catalog := customizer.DefaultCatalog()
	doc, err := customizer.NewDocument(catalog, customizer.PresetExecutive)
	require.NoError(t, err)
	quote, err := customizer.PriceDocument(catalog, doc)
	require.NoError(t, err)
	order, err := NewOrder("sess-1", "dad@example.com", doc, quote)
	require.NoError(t, err)
	return order
}

func TestNewOrderID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^CC-[0-9A-Z]+-[0-9A-Z]{1,6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	// 同一毫秒内也不应该碰撞
	assert.Greater(t, len(seen), 90)
}

func TestNewOrder(t *testing.T) {
	order := newPaidableOrder(t)
	assert.Equal(t, StatePendingPayment, order.State)
	assert.Equal(t, int64(14900), order.AmountCents)
	assert.Equal(t, int64(14900), order.PayableCents())

	_, err := NewOrder("", "dad@example.com", order.Document, customizer.Quote{})
	assert.Error(t, err)
}

func TestPayableCents_NeverNegative(t *testing.T) {
	order := newPaidableOrder(t)
	order.DiscountCents = order.AmountCents + 1000
	assert.Equal(t, int64(0), order.PayableCents())
}

func TestMarkPaid_Idempotent(t *testing.T) {
	order := newPaidableOrder(t)

	first, err := order.MarkPaid("pi_123")
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, StatePaid, order.State)
	assert.Equal(t, "pi_123", order.PaymentRef)

	// 重复投递是 no-op
	again, err := order.MarkPaid("pi_123")
	require.NoError(t, err)
	assert.False(t, again)
	assert.Equal(t, "pi_123", order.PaymentRef)
}

func TestMarkPaid_AfterCancelRejected(t *testing.T) {
	order := newPaidableOrder(t)
	require.NoError(t, order.Cancel())

	_, err := order.MarkPaid("pi_123")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvance_FollowsLifecycle(t *testing.T) {
	order := newPaidableOrder(t)
	_, err := order.MarkPaid("pi_123")
	require.NoError(t, err)

	require.NoError(t, order.Advance(StateInProduction))
	require.NoError(t, order.Advance(StateShipped))
	require.NoError(t, order.Advance(StateDelivered))

	// 不能跳步或回退
	assert.ErrorIs(t, order.Advance(StateInProduction), ErrInvalidTransition)
}

func TestCancel_OnlyPending(t *testing.T) {
	order := newPaidableOrder(t)
	_, err := order.MarkPaid("pi_123")
	require.NoError(t, err)
	assert.ErrorIs(t, order.Cancel(), ErrInvalidTransition)
}
