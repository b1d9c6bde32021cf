package application

import (
	"time"

	customizer "caddie/internal/service/customizer/domain"
)

// CreateCheckoutRequest 发起结算
type CreateCheckoutRequest struct {
	SessionID  string `json:"sessionId"`
	Email      string `json:"email"`
	CouponCode string `json:"couponCode,omitempty"`
}

// CreateCheckoutResponse 返回托管收银台跳转地址
type CreateCheckoutResponse struct {
	OrderID          string `json:"orderId"`
	PaymentSessionID string `json:"sessionId"`
	CheckoutURL      string `json:"checkoutUrl"`
	AmountCents      int64  `json:"amountCents"`
	DiscountCents    int64  `json:"discountCents,omitempty"`
	PayableCents     int64  `json:"payableCents"`
}

// SaveDesignRequest 把定制会话的当前设计存为草稿档案，不发起支付
type SaveDesignRequest struct {
	SessionID string `json:"sessionId"`
	Email     string `json:"email,omitempty"`
}

// SaveDesignResponse 返回档案记录 ID
type SaveDesignResponse struct {
	RecordID string `json:"id"`
}

// OrderView 是订单的对外快照
type OrderView struct {
	OrderID       string               `json:"orderId"`
	State         string               `json:"state"`
	Email         string               `json:"email"`
	Document      *customizer.Document `json:"document"`
	AmountCents   int64                `json:"amountCents"`
	DiscountCents int64                `json:"discountCents,omitempty"`
	PayableCents  int64                `json:"payableCents"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// AdvanceOrderRequest 推进订单的履约状态
type AdvanceOrderRequest struct {
	State string `json:"state"`
}

// WebhookAck 是 webhook 端点的固定应答体
type WebhookAck struct {
	Received bool `json:"received"`
}
