package port

import "context"

// CheckoutSessionRequest 是创建支付会话的入参
type CheckoutSessionRequest struct {
	OrderID     string
	Email       string
	AmountCents int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession 是支付网关返回的托管收银台会话
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway 定义了支付网关的出站端口
type PaymentGateway interface {
	// CreateCheckoutSession 创建一个托管收银台会话，返回跳转地址
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	// ExpireSession 作废一个支付会话，用于 Saga 补偿，幂等
	ExpireSession(ctx context.Context, sessionID string) error
}
