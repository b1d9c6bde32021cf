// internal/service/promotion/domain/repository.go
package domain

import "context"

// CouponRepository 定义了优惠券仓储的接口
type CouponRepository interface {
	// FindByCode 按券码查找（含模板），不存在时返回 ErrCouponNotFound
	FindByCode(ctx context.Context, code string) (*UserCoupon, error)
	// Save 保存券的状态变更
	Save(ctx context.Context, coupon *UserCoupon) error
}
