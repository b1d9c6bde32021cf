// internal/service/promotion/domain/coupon.go
package domain

import (
	"errors"
	"time"
)

// UserCouponStatus 定义了优惠券的生命周期状态。
// FROZEN 是 Saga 事务的中间态：下单冻结，支付成功核销，订单失败回滚。
type UserCouponStatus string

const (
	StatusUnused  UserCouponStatus = "UNUSED"
	StatusFrozen  UserCouponStatus = "FROZEN"
	StatusUsed    UserCouponStatus = "USED"
	StatusExpired UserCouponStatus = "EXPIRED"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponExpired       = errors.New("coupon is expired")
	ErrCouponAlreadyUsed   = errors.New("coupon has already been used")
	ErrCouponNotApplicable = errors.New("coupon is not applicable to this order")
	ErrCouponStatusInvalid = errors.New("coupon status does not allow this operation")
)

// UserCoupon 是一张具体的优惠券实例。
// Template 指向领取时锁定的模板版本，之后模板规则的修改不影响已发出的券。
type UserCoupon struct {
	ID        int64
	Code      string
	Status    UserCouponStatus
	OrderID   string // 冻结后记录关联订单
	ExpiresAt time.Time
	UsedAt    time.Time

	Template *CouponTemplate
}

// Freeze 校验资格并把券置为冻结。fact 是订单事实，交给模板规则评估。
// 返回折扣金额（美分）。
func (uc *UserCoupon) Freeze(engine RuleEngine, fact Fact, orderID string) (int64, error) {
	if uc.Status == StatusUsed {
		return 0, ErrCouponAlreadyUsed
	}
	if uc.Status != StatusUnused {
		return 0, ErrCouponStatusInvalid
	}
	if !uc.ExpiresAt.IsZero() && time.Now().After(uc.ExpiresAt) {
		return 0, ErrCouponExpired
	}

	eligible, err := uc.Template.Eligible(engine, fact)
	if err != nil {
		return 0, err
	}
	if !eligible {
		return 0, ErrCouponNotApplicable
	}

	discount, err := uc.Template.Discount(fact.AmountCents)
	if err != nil {
		return 0, err
	}

	uc.Status = StatusFrozen
	uc.OrderID = orderID
	return discount, nil
}

// Commit 在支付完成后把冻结的券置为已使用
func (uc *UserCoupon) Commit(orderID string) error {
	if uc.Status != StatusFrozen || uc.OrderID != orderID {
		return ErrCouponStatusInvalid
	}
	uc.Status = StatusUsed
	uc.UsedAt = time.Now()
	return nil
}

// Release 把冻结的券回滚为未使用，用于 Saga 补偿
func (uc *UserCoupon) Release(orderID string) error {
	if uc.Status != StatusFrozen || uc.OrderID != orderID {
		return ErrCouponStatusInvalid
	}
	uc.Status = StatusUnused
	uc.OrderID = ""
	return nil
}
