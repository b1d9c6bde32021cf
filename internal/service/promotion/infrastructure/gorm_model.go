package infrastructure

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// CouponTemplateModel 对应数据库中的 coupon_templates 表
type CouponTemplateModel struct {
	gorm.Model
	Version            int32
	Name               string
	Status             string `gorm:"size:32"`
	RuleExpression     string `gorm:"type:text"`
	DiscountType       string `gorm:"size:32"`
	DiscountProperties string `gorm:"type:json"`
}

// TableName 指定 GORM 应该使用的表名
func (CouponTemplateModel) TableName() string {
	return "coupon_templates"
}

// UserCouponModel 对应数据库中的 user_coupons 表
type UserCouponModel struct {
	gorm.Model
	Code       string `gorm:"uniqueIndex;size:64"`
	Status     string `gorm:"size:16"`
	OrderID    sql.NullString
	ExpiresAt  time.Time
	UsedAt     sql.NullTime
	TemplateID uint

	// 关联关系
	Template CouponTemplateModel `gorm:"foreignKey:TemplateID"`
}

// TableName 指定 GORM 应该使用的表名
func (UserCouponModel) TableName() string {
	return "user_coupons"
}
