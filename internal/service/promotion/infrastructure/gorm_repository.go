package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"caddie/internal/service/promotion/domain"
)

// GormCouponRepository 是 CouponRepository 的 GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository 创建一个新的 GORM 仓储实例
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// AutoMigrate 建表，供组装根在启动时调用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&CouponTemplateModel{}, &UserCouponModel{})
}

// FindByCode 使用 GORM 从数据库中查找优惠券，预加载模板
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*domain.UserCoupon, error) {
	var model UserCouponModel
	err := r.db.WithContext(ctx).Preload("Template").Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}
	return ToDomainUserCoupon(&model), nil
}

// Save 只回写状态相关的字段，模板是不可变的
func (r *GormCouponRepository) Save(ctx context.Context, coupon *domain.UserCoupon) error {
	updateData := map[string]interface{}{
		"status": string(coupon.Status),
	}
	if coupon.OrderID != "" {
		updateData["order_id"] = coupon.OrderID
	} else {
		updateData["order_id"] = sql.NullString{}
	}
	if !coupon.UsedAt.IsZero() {
		updateData["used_at"] = coupon.UsedAt
	}
	return r.db.WithContext(ctx).Model(&UserCouponModel{}).Where("id = ?", coupon.ID).Updates(updateData).Error
}
