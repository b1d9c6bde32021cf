package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	result bool
	err    error
}

func (e stubEngine) Evaluate(string, Fact) (bool, error) {
	return e.result, e.err
}

func fixedTemplate(amountCents int64, rule string) *CouponTemplate {
	return &CouponTemplate{
		ID:                 1,
		Name:               "Welcome",
		Status:             "ACTIVE",
		RuleExpression:     rule,
		DiscountType:       DiscountTypeFixedAmount,
		DiscountProperties: fmt.Sprintf(`{"amountCents": %d}`, amountCents),
	}
}

func newCoupon(tpl *CouponTemplate) *UserCoupon {
	return &UserCoupon{
		ID:        7,
		Code:      "WELCOME10",
		Status:    StatusUnused,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Template:  tpl,
	}
}

func TestFreeze_HappyPath(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, `preset == "signature"`))
	fact := Fact{Preset: "signature", Quantity: 1, AmountCents: 24900}

	discount, err := coupon.Freeze(stubEngine{result: true}, fact, "CC-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), discount)
	assert.Equal(t, StatusFrozen, coupon.Status)
	assert.Equal(t, "CC-1", coupon.OrderID)
}

func TestFreeze_NotApplicable(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, `preset == "signature"`))
	_, err := coupon.Freeze(stubEngine{result: false}, Fact{Preset: "executive"}, "CC-1")
	assert.ErrorIs(t, err, ErrCouponNotApplicable)
	assert.Equal(t, StatusUnused, coupon.Status)
}

func TestFreeze_Expired(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, ""))
	coupon.ExpiresAt = time.Now().Add(-time.Hour)
	_, err := coupon.Freeze(stubEngine{result: true}, Fact{}, "CC-1")
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestFreeze_AlreadyUsed(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, ""))
	coupon.Status = StatusUsed
	_, err := coupon.Freeze(stubEngine{result: true}, Fact{}, "CC-1")
	assert.ErrorIs(t, err, ErrCouponAlreadyUsed)
}

func TestFreeze_FrozenByAnotherOrder(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, ""))
	coupon.Status = StatusFrozen
	_, err := coupon.Freeze(stubEngine{result: true}, Fact{}, "CC-2")
	assert.ErrorIs(t, err, ErrCouponStatusInvalid)
}

func TestCommitAndRelease_RequireMatchingOrder(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, ""))
	_, err := coupon.Freeze(stubEngine{result: true}, Fact{AmountCents: 24900}, "CC-1")
	require.NoError(t, err)

	assert.ErrorIs(t, coupon.Commit("CC-other"), ErrCouponStatusInvalid)
	require.NoError(t, coupon.Commit("CC-1"))
	assert.Equal(t, StatusUsed, coupon.Status)
	assert.False(t, coupon.UsedAt.IsZero())
}

func TestRelease_RollsBackToUnused(t *testing.T) {
	coupon := newCoupon(fixedTemplate(1000, ""))
	_, err := coupon.Freeze(stubEngine{result: true}, Fact{AmountCents: 24900}, "CC-1")
	require.NoError(t, err)

	require.NoError(t, coupon.Release("CC-1"))
	assert.Equal(t, StatusUnused, coupon.Status)
	assert.Empty(t, coupon.OrderID)
}

func TestDiscount_FixedCappedAtAmount(t *testing.T) {
	tpl := fixedTemplate(50000, "")
	discount, err := tpl.Discount(24900)
	require.NoError(t, err)
	assert.Equal(t, int64(24900), discount)
}

func TestDiscount_PercentageWithCeiling(t *testing.T) {
	tpl := &CouponTemplate{
		ID:                 2,
		DiscountType:       DiscountTypePercentage,
		DiscountProperties: `{"percent": 10, "ceilingCents": 2000}`,
	}

	discount, err := tpl.Discount(14900)
	require.NoError(t, err)
	assert.Equal(t, int64(1490), discount)

	// 折扣触顶
	discount, err = tpl.Discount(50000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), discount)
}

func TestDiscount_UnknownType(t *testing.T) {
	tpl := &CouponTemplate{ID: 3, DiscountType: "FREEBIE"}
	_, err := tpl.Discount(10000)
	assert.Error(t, err)
}
