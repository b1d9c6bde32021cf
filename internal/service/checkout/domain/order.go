// internal/service/checkout/domain/order.go
package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	customizer "caddie/internal/service/customizer/domain"
)

// Order 是结算域的聚合根：一份定制文档的快照加上支付与履约状态。
// 文档快照在下单时冻结，之后定制会话的任何修改都不再影响该订单。
type Order struct {
	ID     string
	State  OrderState
	Email  string

	// 定制内容快照
	SessionID string
	Document  *customizer.Document

	// 金额，一律美分
	AmountCents   int64
	DiscountCents int64

	// 优惠券
	CouponCode string

	// 支付网关侧的会话/支付引用，支付完成前为空
	PaymentSessionID string
	PaymentRef       string

	// 设计档案在外部数据表中的记录 ID
	DesignRecordID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderID 生成形如 CC-MB3K2J1A-X7Q9ZP 的订单号：
// 毫秒时间戳和随机尾缀都用 base36 编码后大写。
func NewOrderID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strconv.FormatUint(uint64(rand.Uint32()), 36)
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return strings.ToUpper(fmt.Sprintf("CC-%s-%s", ts, suffix))
}

// NewOrder 从定制会话的文档快照创建一个待支付订单
func NewOrder(sessionID, email string, doc *customizer.Document, quote customizer.Quote) (*Order, error) {
	if sessionID == "" || email == "" || doc == nil {
		return nil, fmt.Errorf("cannot create order with empty required fields")
	}

	now := time.Now()
	return &Order{
		ID:          NewOrderID(),
		State:       StatePendingPayment,
		Email:       email,
		SessionID:   sessionID,
		Document:    doc,
		AmountCents: quote.TotalCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PayableCents 返回扣减优惠后的应付金额，不会低于 0
func (o *Order) PayableCents() int64 {
	payable := o.AmountCents - o.DiscountCents
	if payable < 0 {
		return 0
	}
	return payable
}

// MarkPaid 把订单标记为已支付并记录支付引用。
// 已经用同一支付引用标记过的订单是幂等 no-op，返回 false 表示不是第一次。
func (o *Order) MarkPaid(paymentRef string) (bool, error) {
	if o.State == StatePaid || o.State == StateInProduction ||
		o.State == StateShipped || o.State == StateDelivered {
		return false, nil
	}
	if !CanTransition(o.State, StatePaid) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, StatePaid)
	}
	o.State = StatePaid
	o.PaymentRef = paymentRef
	o.UpdatedAt = time.Now()
	return true, nil
}

// Advance 推进履约状态（paid -> in_production -> shipped -> delivered）
func (o *Order) Advance(to OrderState) error {
	if !CanTransition(o.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, to)
	}
	o.State = to
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel 取消订单，只有待支付的订单可以取消
func (o *Order) Cancel() error {
	if !CanTransition(o.State, StateCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, StateCancelled)
	}
	o.State = StateCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// MarkFailed 把订单标记为失败，用于 Saga 补偿
func (o *Order) MarkFailed() {
	o.State = StateFailed
	o.UpdatedAt = time.Now()
}
