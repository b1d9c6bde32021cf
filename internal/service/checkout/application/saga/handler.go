package saga

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/domain"
	"caddie/internal/service/checkout/port"
)

// CheckoutContext 在结算 Saga 流程中传递上下文数据。
// 所有外部依赖都是出站端口，步骤处理器不直接接触基础设施。
type CheckoutContext struct {
	Ctx    context.Context
	Order  *domain.Order
	Tracer trace.Tracer

	// 结算入参
	CouponCode  string
	Description string
	SuccessURL  string
	CancelURL   string

	// 出站端口
	OrderRepo domain.OrderRepository
	Archive   port.DesignArchive
	Payment   port.PaymentGateway
	Coupons   port.CouponService

	// 最后一步写入，交给接口层返回给前端
	CheckoutURL string

	// 补偿函数栈，后注册的先执行
	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation 注册一个补偿函数，压入栈顶
func (c *CheckoutContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation 按注册的逆序执行全部补偿函数
func (c *CheckoutContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().
		Str("order_id", c.Order.ID).
		Int("compensations", len(c.compensations)).
		Msg("executing checkout compensation functions")
	for _, comp := range c.compensations {
		comp(ctx)
	}
}

// Handler 是责任链上的一个结算步骤
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(checkoutCtx *CheckoutContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(checkoutCtx *CheckoutContext) error {
	if h.next != nil {
		return h.next.Handle(checkoutCtx)
	}
	return nil
}
