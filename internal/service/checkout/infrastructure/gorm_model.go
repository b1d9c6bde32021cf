package infrastructure

import "time"

// OrderModel 是订单表的 GORM 模型。
// payment_session_id 和 payment_ref 用指针映射为可空列，
// 未支付订单不会占用唯一索引的空串槽位。
type OrderModel struct {
	ID               string  `gorm:"primaryKey;size:32"`
	State            string  `gorm:"size:32;index"`
	Email            string  `gorm:"size:255"`
	SessionID        string  `gorm:"size:64;index"`
	DocumentJSON     string  `gorm:"type:text"`
	AmountCents      int64
	DiscountCents    int64
	CouponCode       string  `gorm:"size:64"`
	PaymentSessionID *string `gorm:"size:128;uniqueIndex"`
	PaymentRef       *string `gorm:"size:128;uniqueIndex"`
	DesignRecordID   string  `gorm:"size:64"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// WebhookEventModel 记录已处理的支付 webhook 事件，主键即事件 ID。
// 重复投递的事件在插入时撞主键，由仓储翻译成“已处理”。
type WebhookEventModel struct {
	EventID     string `gorm:"primaryKey;size:128"`
	ProcessedAt time.Time
}

func (WebhookEventModel) TableName() string {
	return "webhook_events"
}
