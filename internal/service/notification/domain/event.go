// internal/service/notification/domain/event.go
package domain

// OrderConfirmation 是从消息队列消费的支付完成事件。
// 字段与结算域发布的事件保持线上兼容，但类型上相互独立。
type OrderConfirmation struct {
	OrderID       string `json:"orderId"`
	Email         string `json:"email"`
	RecipientName string `json:"recipientName"`
	PresetName    string `json:"presetName"`
	Quantity      int    `json:"quantity"`
	AmountCents   int64  `json:"amountCents"`
}
