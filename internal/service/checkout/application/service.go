package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/application/saga"
	"caddie/internal/service/checkout/domain"
	"caddie/internal/service/checkout/port"
	customizer "caddie/internal/service/customizer/domain"
)

// CheckoutService 定义了结算域提供的所有业务用例：
// 发起结算 Saga、处理支付 webhook、查询订单与设计档案、推进履约状态。
type CheckoutService struct {
	catalog     *customizer.Catalog
	sessionRepo customizer.SessionRepository

	orderRepo   domain.OrderRepository
	webhookRepo domain.WebhookEventRepository
	archive     port.DesignArchive
	payment     port.PaymentGateway
	coupons     port.CouponService // 功能开关关闭时为 nil
	producer    port.OrderEventProducer
	tracer      trace.Tracer

	successURL string
	cancelURL  string
}

// NewCheckoutService 创建一个新的结算服务实例
func NewCheckoutService(
	catalog *customizer.Catalog,
	sessionRepo customizer.SessionRepository,
	orderRepo domain.OrderRepository,
	webhookRepo domain.WebhookEventRepository,
	archive port.DesignArchive,
	payment port.PaymentGateway,
	coupons port.CouponService,
	producer port.OrderEventProducer,
	tracer trace.Tracer,
	successURL, cancelURL string,
) *CheckoutService {
	return &CheckoutService{
		catalog:     catalog,
		sessionRepo: sessionRepo,
		orderRepo:   orderRepo,
		webhookRepo: webhookRepo,
		archive:     archive,
		payment:     payment,
		coupons:     coupons,
		producer:    producer,
		tracer:      tracer,
		successURL:  successURL,
		cancelURL:   cancelURL,
	}
}

// CreateCheckout 从定制会话发起结算：冻结文档快照、落库草稿订单、
// 归档设计、冻结优惠券、在支付网关创建收银台会话。任何一步失败都会
// 触发前面步骤的补偿。
func (s *CheckoutService) CreateCheckout(ctx context.Context, req *CreateCheckoutRequest) (*CreateCheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateCheckout")
	defer span.End()

	session, err := s.sessionRepo.FindByID(ctx, req.SessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	quote, err := customizer.PriceDocument(s.catalog, session.Document)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, err := domain.NewOrder(req.SessionID, req.Email, session.Document, quote)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("session.id", req.SessionID),
		attribute.Int64("order.amount_cents", order.AmountCents),
	)

	preset, _ := s.catalog.Lookup(session.Document.Preset)
	checkoutCtx := &saga.CheckoutContext{
		Ctx:         ctx,
		Order:       order,
		Tracer:      s.tracer,
		CouponCode:  req.CouponCode,
		Description: fmt.Sprintf("%s x%d", preset.Name, session.Document.Quantity),
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
		OrderRepo:   s.orderRepo,
		Archive:     s.archive,
		Payment:     s.payment,
		Coupons:     s.coupons,
	}

	// 组装责任链: 草稿 -> 优惠券 -> 支付会话
	draft := saga.NewDraftOrderHandler()
	draft.SetNext(saga.NewCouponHandler()).SetNext(saga.NewPaymentSessionHandler())

	if err := draft.Handle(checkoutCtx); err != nil {
		span.RecordError(err)
		checkoutCtx.TriggerCompensation(ctx)
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("payment_session", order.PaymentSessionID).
		Int64("payable_cents", order.PayableCents()).
		Msg("checkout session created")

	return &CreateCheckoutResponse{
		OrderID:          order.ID,
		PaymentSessionID: order.PaymentSessionID,
		CheckoutURL:      checkoutCtx.CheckoutURL,
		AmountCents:      order.AmountCents,
		DiscountCents:    order.DiscountCents,
		PayableCents:     order.PayableCents(),
	}, nil
}

// SaveDesign 把定制会话的当前文档存为设计档案草稿。
// 买家可以先保存设计稍后再付款，草稿不占用订单号。
func (s *CheckoutService) SaveDesign(ctx context.Context, req *SaveDesignRequest) (*SaveDesignResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.SaveDesign")
	defer span.End()

	session, err := s.sessionRepo.FindByID(ctx, req.SessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	quote, err := customizer.PriceDocument(s.catalog, session.Document)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	designJSON, err := json.Marshal(session.Document)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal design snapshot")
	}
	recordID, err := s.archive.SaveDesign(ctx, &port.DesignRecord{
		Email:         req.Email,
		RecipientName: session.Document.Recipient.Name,
		Preset:        string(session.Document.Preset),
		Quantity:      session.Document.Quantity,
		AmountCents:   quote.TotalCents,
		Status:        "draft",
		DesignJSON:    string(designJSON),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to archive design")
	}

	logger.Ctx(ctx).Info().
		Str("record_id", recordID).
		Str("session_id", req.SessionID).
		Msg("design draft archived")
	return &SaveDesignResponse{RecordID: recordID}, nil
}

// HandlePaymentEvent 处理支付网关的 webhook 事件。签名已由接口层校验。
// 网关按至少一次投递，这里用事件 ID 去重，重复投递直接吞掉。
// 处理失败返回错误由接口层决定是否仍然应答 200。
func (s *CheckoutService) HandlePaymentEvent(ctx context.Context, event *domain.PaymentEvent) error {
	ctx, span := s.tracer.Start(ctx, "service.HandlePaymentEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("webhook.event_id", event.EventID),
		attribute.String("webhook.type", event.Type),
	)

	first, err := s.webhookRepo.MarkProcessed(ctx, event.EventID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to dedupe webhook event")
	}
	if !first {
		logger.Ctx(ctx).Info().
			Str("event_id", event.EventID).
			Msg("duplicate webhook event, skipping")
		return nil
	}

	switch event.Type {
	case domain.EventCheckoutCompleted:
		return s.completePayment(ctx, event)
	case domain.EventCheckoutExpired:
		return s.expirePayment(ctx, event)
	default:
		// 未订阅的事件类型，确认收到即可
		logger.Ctx(ctx).Debug().
			Str("type", event.Type).
			Msg("ignoring unhandled webhook event type")
		return nil
	}
}

func (s *CheckoutService) completePayment(ctx context.Context, event *domain.PaymentEvent) error {
	ctx, span := s.tracer.Start(ctx, "service.completePayment")
	defer span.End()

	order, err := s.findOrderForEvent(ctx, event)
	if err != nil {
		span.RecordError(err)
		return err
	}

	firstPaid, err := order.MarkPaid(event.Data.PaymentRef)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !firstPaid {
		// 去重表丢失时的第二道防线：订单状态本身也是幂等的
		logger.Ctx(ctx).Info().
			Str("order_id", order.ID).
			Msg("order already paid, skipping")
		return nil
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save paid order")
	}

	// 优惠券从冻结转为已使用
	if order.CouponCode != "" && s.coupons != nil {
		if err := s.coupons.Commit(ctx, order.CouponCode, order.ID); err != nil {
			// 支付已完成，券提交失败只记录，不回滚支付
			span.RecordError(err)
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Str("coupon", order.CouponCode).
				Msg("failed to commit coupon after payment")
		}
	}

	// 外部数据表状态列同步
	if order.DesignRecordID != "" {
		if err := s.archive.UpdateStatus(ctx, order.DesignRecordID, string(order.State)); err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Str("order_id", order.ID).
				Msg("failed to update design archive status")
		}
	}

	// 确认邮件与在线推送都走消息队列，失败不影响 webhook 应答
	s.publishPaidEvents(ctx, order)

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("payment_ref", event.Data.PaymentRef).
		Msg("order paid")
	span.AddEvent("Order marked as paid.")
	return nil
}

func (s *CheckoutService) expirePayment(ctx context.Context, event *domain.PaymentEvent) error {
	ctx, span := s.tracer.Start(ctx, "service.expirePayment")
	defer span.End()

	order, err := s.findOrderForEvent(ctx, event)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := order.Cancel(); err != nil {
		// 已支付或已取消的订单收到过期事件，忽略
		logger.Ctx(ctx).Info().
			Str("order_id", order.ID).
			Str("state", string(order.State)).
			Msg("expired event on non-pending order, skipping")
		return nil
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save cancelled order")
	}

	if order.CouponCode != "" && s.coupons != nil {
		if err := s.coupons.Release(ctx, order.CouponCode, order.ID); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Str("coupon", order.CouponCode).
				Msg("failed to release coupon for expired checkout")
		}
	}

	if err := s.producer.PublishStatus(ctx, &domain.StatusEvent{OrderID: order.ID, State: order.State}); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish status event")
	}
	return nil
}

// findOrderForEvent 优先用 metadata 里的订单号定位订单，回退到支付会话 ID
func (s *CheckoutService) findOrderForEvent(ctx context.Context, event *domain.PaymentEvent) (*domain.Order, error) {
	if orderID := event.Data.Metadata[domain.OrderMetadataKey]; orderID != "" {
		return s.orderRepo.FindByID(ctx, orderID)
	}
	return s.orderRepo.FindByPaymentSession(ctx, event.Data.SessionID)
}

// publishPaidEvents 并行发布确认邮件事件与状态推送事件，两个主题互不依赖
func (s *CheckoutService) publishPaidEvents(ctx context.Context, order *domain.Order) {
	preset, _ := s.catalog.Lookup(order.Document.Preset)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.producer.PublishConfirmation(gctx, &domain.ConfirmationEvent{
			OrderID:       order.ID,
			Email:         order.Email,
			RecipientName: order.Document.Recipient.Name,
			PresetName:    preset.Name,
			Quantity:      order.Document.Quantity,
			AmountCents:   order.PayableCents(),
		})
	})
	g.Go(func() error {
		return s.producer.PublishStatus(gctx, &domain.StatusEvent{OrderID: order.ID, State: order.State})
	})
	if err := g.Wait(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish order events")
	}
}

// GetOrder 返回订单快照
func (s *CheckoutService) GetOrder(ctx context.Context, id string) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetOrder")
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return orderView(order), nil
}

// GetDesign 按记录 ID 返回设计档案
func (s *CheckoutService) GetDesign(ctx context.Context, recordID string) (*port.DesignRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetDesign")
	defer span.End()

	record, err := s.archive.GetDesign(ctx, recordID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return record, nil
}

// AdvanceOrder 推进履约状态并广播状态变化，供内部运营接口使用
func (s *CheckoutService) AdvanceOrder(ctx context.Context, id string, req *AdvanceOrderRequest) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "service.AdvanceOrder")
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := order.Advance(domain.OrderState(req.State)); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if order.DesignRecordID != "" {
		if err := s.archive.UpdateStatus(ctx, order.DesignRecordID, string(order.State)); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to update design archive status")
		}
	}
	if err := s.producer.PublishStatus(ctx, &domain.StatusEvent{OrderID: order.ID, State: order.State}); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish status event")
	}
	return orderView(order), nil
}

func orderView(order *domain.Order) *OrderView {
	return &OrderView{
		OrderID:       order.ID,
		State:         string(order.State),
		Email:         order.Email,
		Document:      order.Document,
		AmountCents:   order.AmountCents,
		DiscountCents: order.DiscountCents,
		PayableCents:  order.PayableCents(),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
