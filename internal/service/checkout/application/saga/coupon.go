package saga

import (
	"context"

	"github.com/pkg/errors"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/port"
)

// CouponHandler 负责冻结优惠券并把折扣记到订单上。
// 没有携带券码时直接放行。
type CouponHandler struct {
	NextHandler
}

func NewCouponHandler() *CouponHandler {
	return &CouponHandler{}
}

func (h *CouponHandler) Handle(checkoutCtx *CheckoutContext) error {
	if checkoutCtx.CouponCode == "" || checkoutCtx.Coupons == nil {
		return h.executeNext(checkoutCtx)
	}

	ctx, span := checkoutCtx.Tracer.Start(checkoutCtx.Ctx, "saga.FreezeCoupon")
	defer span.End()

	order := checkoutCtx.Order
	discount, err := checkoutCtx.Coupons.Freeze(ctx, checkoutCtx.CouponCode, order.ID, &port.CouponFact{
		Preset:      string(order.Document.Preset),
		Quantity:    order.Document.Quantity,
		Occasion:    order.Document.GiftOptions.Occasion,
		AmountCents: order.AmountCents,
	})
	if err != nil {
		span.RecordError(err)
		return errors.Wrapf(err, "failed to freeze coupon %s", checkoutCtx.CouponCode)
	}

	order.CouponCode = checkoutCtx.CouponCode
	order.DiscountCents = discount
	span.AddEvent("Coupon frozen.")

	checkoutCtx.AddCompensation(func(ctx context.Context) {
		if err := checkoutCtx.Coupons.Release(ctx, checkoutCtx.CouponCode, order.ID); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Str("coupon", checkoutCtx.CouponCode).
				Msg("compensation: failed to release coupon")
		}
	})

	return h.executeNext(checkoutCtx)
}
