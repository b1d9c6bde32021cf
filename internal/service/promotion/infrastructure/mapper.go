package infrastructure

import (
	"database/sql"

	"gorm.io/gorm"

	"caddie/internal/service/promotion/domain"
)

// ToDomainUserCoupon 将数据库模型转换为领域模型
func ToDomainUserCoupon(model *UserCouponModel) *domain.UserCoupon {
	if model == nil {
		return nil
	}
	coupon := &domain.UserCoupon{
		ID:        int64(model.ID),
		Code:      model.Code,
		Status:    domain.UserCouponStatus(model.Status),
		ExpiresAt: model.ExpiresAt,
		Template:  ToDomainCouponTemplate(&model.Template),
	}
	if model.OrderID.Valid {
		coupon.OrderID = model.OrderID.String
	}
	if model.UsedAt.Valid {
		coupon.UsedAt = model.UsedAt.Time
	}
	return coupon
}

// ToDomainCouponTemplate 将数据库模型转换为领域模型
func ToDomainCouponTemplate(model *CouponTemplateModel) *domain.CouponTemplate {
	if model == nil {
		return nil
	}
	return &domain.CouponTemplate{
		ID:                 int64(model.ID),
		Version:            model.Version,
		Name:               model.Name,
		Status:             model.Status,
		RuleExpression:     model.RuleExpression,
		DiscountType:       domain.DiscountType(model.DiscountType),
		DiscountProperties: model.DiscountProperties,
	}
}

// FromDomainUserCoupon 将领域模型转换为数据库模型 (用于更新)
func FromDomainUserCoupon(dmn *domain.UserCoupon) *UserCouponModel {
	if dmn == nil {
		return nil
	}
	model := &UserCouponModel{
		Model: gorm.Model{
			ID: uint(dmn.ID),
		},
		Code:   dmn.Code,
		Status: string(dmn.Status),
	}
	if dmn.OrderID != "" {
		model.OrderID = sql.NullString{String: dmn.OrderID, Valid: true}
	}
	if !dmn.UsedAt.IsZero() {
		model.UsedAt = sql.NullTime{Time: dmn.UsedAt, Valid: true}
	}
	if dmn.Template != nil {
		model.TemplateID = uint(dmn.Template.ID)
	}
	return model
}
