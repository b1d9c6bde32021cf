// internal/service/checkout/domain/state.go
package domain

// OrderState 是订单的生命周期状态
type OrderState string

const (
	StatePendingPayment OrderState = "pending_payment" // 草稿已落库，等待支付
	StatePaid           OrderState = "paid"            // 支付完成
	StateInProduction   OrderState = "in_production"   // 个性化制作中
	StateShipped        OrderState = "shipped"
	StateDelivered      OrderState = "delivered"
	StateCancelled      OrderState = "cancelled"
	StateFailed         OrderState = "failed"
)

// transitions 定义了合法的状态流转
var transitions = map[OrderState][]OrderState{
	StatePendingPayment: {StatePaid, StateCancelled, StateFailed},
	StatePaid:           {StateInProduction},
	StateInProduction:   {StateShipped},
	StateShipped:        {StateDelivered},
}

// CanTransition 判断从 from 到 to 的流转是否合法
func CanTransition(from, to OrderState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
