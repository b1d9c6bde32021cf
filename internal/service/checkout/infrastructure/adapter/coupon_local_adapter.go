package adapter

import (
	"context"

	"caddie/internal/service/checkout/port"
	promotion "caddie/internal/service/promotion/application"
)

// CouponLocalAdapter 把结算域的 CouponService 端口接到同进程内的
// promotion 应用服务上。storefront 把两个域部署在同一个二进制里，
// 不需要为券走一次网络。
type CouponLocalAdapter struct {
	service *promotion.PromotionService
}

// NewCouponLocalAdapter 创建一个进程内优惠券适配器
func NewCouponLocalAdapter(service *promotion.PromotionService) *CouponLocalAdapter {
	return &CouponLocalAdapter{service: service}
}

func (a *CouponLocalAdapter) Freeze(ctx context.Context, code, orderID string, fact *port.CouponFact) (int64, error) {
	resp, err := a.service.FreezeCoupon(ctx, &promotion.FreezeCouponRequest{
		CouponCode: code,
		OrderID:    orderID,
		Fact: promotion.OrderFact{
			Preset:      fact.Preset,
			Quantity:    fact.Quantity,
			Occasion:    fact.Occasion,
			AmountCents: fact.AmountCents,
		},
	})
	if err != nil {
		return 0, err
	}
	return resp.DiscountCents, nil
}

func (a *CouponLocalAdapter) Commit(ctx context.Context, code, orderID string) error {
	return a.service.CommitCoupon(ctx, &promotion.CouponOrderRequest{CouponCode: code, OrderID: orderID})
}

func (a *CouponLocalAdapter) Release(ctx context.Context, code, orderID string) error {
	return a.service.ReleaseCoupon(ctx, &promotion.CouponOrderRequest{CouponCode: code, OrderID: orderID})
}
