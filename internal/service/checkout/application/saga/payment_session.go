package saga

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/domain"
	"caddie/internal/service/checkout/port"
)

// PaymentSessionHandler 负责在支付网关创建托管收银台会话。
// 这是链上最后一个有副作用的步骤，它失败会触发前面所有补偿。
type PaymentSessionHandler struct {
	NextHandler
}

// 收银台创建只发一次不重试（无去重能力），超时后把可重试错误交给用户
const paymentSessionTimeout = 15 * time.Second

func NewPaymentSessionHandler() *PaymentSessionHandler {
	return &PaymentSessionHandler{}
}

func (h *PaymentSessionHandler) Handle(checkoutCtx *CheckoutContext) error {
	ctx, span := checkoutCtx.Tracer.Start(checkoutCtx.Ctx, "saga.CreatePaymentSession")
	defer span.End()

	order := checkoutCtx.Order

	sessionCtx, cancel := context.WithTimeout(ctx, paymentSessionTimeout)
	defer cancel()
	session, err := checkoutCtx.Payment.CreateCheckoutSession(sessionCtx, &port.CheckoutSessionRequest{
		OrderID:     order.ID,
		Email:       order.Email,
		AmountCents: order.PayableCents(),
		Currency:    "usd",
		Description: checkoutCtx.Description,
		SuccessURL:  checkoutCtx.SuccessURL,
		CancelURL:   checkoutCtx.CancelURL,
		Metadata:    map[string]string{domain.OrderMetadataKey: order.ID},
	})
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to create payment session")
	}

	order.PaymentSessionID = session.ID
	checkoutCtx.CheckoutURL = session.URL

	checkoutCtx.AddCompensation(func(ctx context.Context) {
		if err := checkoutCtx.Payment.ExpireSession(ctx, session.ID); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Str("payment_session", session.ID).
				Msg("compensation: failed to expire payment session")
		}
	})

	// 把支付会话引用写回订单
	if err := checkoutCtx.OrderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save payment session reference")
	}

	span.AddEvent("Payment session created.")
	return h.executeNext(checkoutCtx)
}
