// internal/service/checkout/domain/event.go
package domain

// PaymentEvent 是支付网关 webhook 推送的事件。
// 网关对同一事件可能多次投递，处理方必须以 EventID 去重。
type PaymentEvent struct {
	EventID string `json:"id"`
	Type    string `json:"type"`
	Data    struct {
		SessionID  string            `json:"sessionId"`
		PaymentRef string            `json:"paymentRef"`
		Metadata   map[string]string `json:"metadata"`
	} `json:"data"`
}

// 支付网关事件类型
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// OrderMetadataKey 是支付会话 metadata 中携带订单号的键
const OrderMetadataKey = "order_id"

// ConfirmationEvent 在支付完成后发往通知服务，驱动确认邮件
type ConfirmationEvent struct {
	OrderID       string `json:"orderId"`
	Email         string `json:"email"`
	RecipientName string `json:"recipientName"`
	PresetName    string `json:"presetName"`
	Quantity      int    `json:"quantity"`
	AmountCents   int64  `json:"amountCents"`
}

// StatusEvent 在订单状态变化时发布，推送网关把它转发给在线客户端
type StatusEvent struct {
	OrderID string     `json:"orderId"`
	State   OrderState `json:"state"`
}
