package port

import "context"

// CouponFact 是优惠券资格规则评估时可见的订单事实
type CouponFact struct {
	Preset      string
	Quantity    int
	Occasion    string
	AmountCents int64
}

// CouponService 定义了优惠券的出站端口。
// 结算流程只依赖冻结/提交/释放三个动作，规则细节留在 promotion 域内。
type CouponService interface {
	// Freeze 冻结一张券并返回折扣金额（美分）。冻结失败时订单不应继续。
	Freeze(ctx context.Context, code, orderID string, fact *CouponFact) (int64, error)
	// Commit 在支付完成后把冻结的券置为已使用
	Commit(ctx context.Context, code, orderID string) error
	// Release 把冻结的券回滚为未使用，用于 Saga 补偿
	Release(ctx context.Context, code, orderID string) error
}
