package application

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"caddie/internal/service/checkout/domain"
	"caddie/internal/service/checkout/infrastructure/adapter"
	"caddie/internal/service/checkout/port"
	customizer "caddie/internal/service/customizer/domain"
	customizerinfra "caddie/internal/service/customizer/infrastructure"
)

// --- 测试替身 ---

type memoryOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *memoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memoryOrderRepo) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memoryOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *memoryOrderRepo) FindByPaymentSession(_ context.Context, sessionID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.PaymentSessionID == sessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

type memoryWebhookRepo struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemoryWebhookRepo() *memoryWebhookRepo {
	return &memoryWebhookRepo{seen: make(map[string]bool)}
}

func (r *memoryWebhookRepo) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[eventID] {
		return false, nil
	}
	r.seen[eventID] = true
	return true, nil
}

type fakePaymentGateway struct {
	failCreate  bool
	sawDeadline bool
	created     []*port.CheckoutSessionRequest
	expired     []string
}

func (g *fakePaymentGateway) CreateCheckoutSession(ctx context.Context, req *port.CheckoutSessionRequest) (*port.CheckoutSession, error) {
	if _, ok := ctx.Deadline(); ok {
		g.sawDeadline = true
	}
	if g.failCreate {
		return nil, errors.New("gateway is down")
	}
	g.created = append(g.created, req)
	return &port.CheckoutSession{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil
}

func (g *fakePaymentGateway) ExpireSession(_ context.Context, sessionID string) error {
	g.expired = append(g.expired, sessionID)
	return nil
}

type recordingProducer struct {
	mu            sync.Mutex
	confirmations []*domain.ConfirmationEvent
	statuses      []*domain.StatusEvent
}

func (p *recordingProducer) PublishConfirmation(_ context.Context, event *domain.ConfirmationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmations = append(p.confirmations, event)
	return nil
}

func (p *recordingProducer) PublishStatus(_ context.Context, event *domain.StatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, event)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

type fakeCoupons struct {
	frozen    []string
	committed []string
	released  []string
	failNext  bool
}

func (c *fakeCoupons) Freeze(_ context.Context, code, _ string, _ *port.CouponFact) (int64, error) {
	if c.failNext {
		return 0, errors.New("coupon not applicable")
	}
	c.frozen = append(c.frozen, code)
	return 1000, nil
}

func (c *fakeCoupons) Commit(_ context.Context, code, _ string) error {
	c.committed = append(c.committed, code)
	return nil
}

func (c *fakeCoupons) Release(_ context.Context, code, _ string) error {
	c.released = append(c.released, code)
	return nil
}

// --- 测试夹具 ---

type fixture struct {
	svc       *CheckoutService
	orders    *memoryOrderRepo
	gateway   *fakePaymentGateway
	producer  *recordingProducer
	coupons   *fakeCoupons
	sessionID string
}

// flakyArchive 前 failures 次保存失败，之后委托给真实现
type flakyArchive struct {
	port.DesignArchive
	failures int
	calls    int
}

func (a *flakyArchive) SaveDesign(ctx context.Context, record *port.DesignRecord) (string, error) {
	a.calls++
	if a.calls <= a.failures {
		return "", errors.New("sheet db timeout")
	}
	return a.DesignArchive.SaveDesign(ctx, record)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	// 未配置的数据表适配器退化为本地存储，正好覆盖降级路径
	return newFixtureWithArchive(t, adapter.NewSheetDBAdapter(nil, "", ""))
}

func newFixtureWithArchive(t *testing.T, archive port.DesignArchive) *fixture {
	t.Helper()

	catalog := customizer.DefaultCatalog()
	sessionRepo := customizerinfra.NewMemorySessionRepository()

	doc, err := customizer.NewDocument(catalog, customizer.PresetSignature)
	require.NoError(t, err)
	doc.SetRecipientName("Robert Smith")
	session := &customizer.Session{ID: "sess-test", Document: doc}
	require.NoError(t, sessionRepo.Save(context.Background(), session))

	f := &fixture{
		orders:    newMemoryOrderRepo(),
		gateway:   &fakePaymentGateway{},
		producer:  &recordingProducer{},
		coupons:   &fakeCoupons{},
		sessionID: session.ID,
	}
	f.svc = NewCheckoutService(
		catalog, sessionRepo,
		f.orders, newMemoryWebhookRepo(),
		archive, f.gateway, f.coupons, f.producer,
		otel.Tracer("checkout-test"),
		"https://shop.example.com/success", "https://shop.example.com/cancel",
	)
	return f
}

func (f *fixture) checkout(t *testing.T, coupon string) *CreateCheckoutResponse {
	t.Helper()
	resp, err := f.svc.CreateCheckout(context.Background(), &CreateCheckoutRequest{
		SessionID:  f.sessionID,
		Email:      "dad@example.com",
		CouponCode: coupon,
	})
	require.NoError(t, err)
	return resp
}

func completedEvent(eventID, orderID string) *domain.PaymentEvent {
	event := &domain.PaymentEvent{EventID: eventID, Type: domain.EventCheckoutCompleted}
	event.Data.SessionID = "cs_test_1"
	event.Data.PaymentRef = "pi_test_1"
	event.Data.Metadata = map[string]string{domain.OrderMetadataKey: orderID}
	return event
}

// --- 测试 ---

func TestCreateCheckout_HappyPath(t *testing.T) {
	f := newFixture(t)

	resp := f.checkout(t, "")
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, "cs_test_1", resp.PaymentSessionID)
	assert.Equal(t, "https://pay.example.com/cs_test_1", resp.CheckoutURL)
	assert.Equal(t, int64(24900), resp.AmountCents)
	assert.Equal(t, int64(24900), resp.PayableCents)

	order, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePendingPayment, order.State)
	assert.Equal(t, "cs_test_1", order.PaymentSessionID)
	assert.NotEmpty(t, order.DesignRecordID)

	// 文档快照被冻结到订单里
	assert.Equal(t, "Robert Smith", order.Document.Recipient.Name)

	require.Len(t, f.gateway.created, 1)
	assert.Equal(t, map[string]string{domain.OrderMetadataKey: resp.OrderID}, f.gateway.created[0].Metadata)
}

func TestCreateCheckout_DraftArchiveRetriesOnce(t *testing.T) {
	archive := &flakyArchive{DesignArchive: adapter.NewSheetDBAdapter(nil, "", ""), failures: 1}
	f := newFixtureWithArchive(t, archive)

	resp := f.checkout(t, "")

	// 第一次保存失败后重试成功，档案 ID 仍然落到订单上
	assert.Equal(t, 2, archive.calls)
	order, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.NotEmpty(t, order.DesignRecordID)
}

func TestCreateCheckout_PaymentSessionCarriesDeadline(t *testing.T) {
	f := newFixture(t)
	f.checkout(t, "")
	assert.True(t, f.gateway.sawDeadline)
}

func TestCreateCheckout_CouponDiscountsPayable(t *testing.T) {
	f := newFixture(t)

	resp := f.checkout(t, "WELCOME10")
	assert.Equal(t, int64(1000), resp.DiscountCents)
	assert.Equal(t, int64(23900), resp.PayableCents)
	assert.Equal(t, []string{"WELCOME10"}, f.coupons.frozen)
	require.Len(t, f.gateway.created, 1)
	assert.Equal(t, int64(23900), f.gateway.created[0].AmountCents)
}

func TestCreateCheckout_SessionNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateCheckout(context.Background(), &CreateCheckoutRequest{
		SessionID: "missing", Email: "dad@example.com",
	})
	assert.ErrorIs(t, err, customizer.ErrSessionNotFound)
}

func TestCreateCheckout_GatewayFailureCompensates(t *testing.T) {
	f := newFixture(t)
	f.gateway.failCreate = true

	_, err := f.svc.CreateCheckout(context.Background(), &CreateCheckoutRequest{
		SessionID:  f.sessionID,
		Email:      "dad@example.com",
		CouponCode: "WELCOME10",
	})
	require.Error(t, err)

	// 补偿：订单标记失败，优惠券回滚
	assert.Equal(t, []string{"WELCOME10"}, f.coupons.released)
	var failed *domain.Order
	for _, order := range f.orders.orders {
		failed = order
	}
	require.NotNil(t, failed)
	assert.Equal(t, domain.StateFailed, failed.State)
}

func TestHandlePaymentEvent_CompletesOrder(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "WELCOME10")

	err := f.svc.HandlePaymentEvent(context.Background(), completedEvent("evt_1", resp.OrderID))
	require.NoError(t, err)

	order, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaid, order.State)
	assert.Equal(t, "pi_test_1", order.PaymentRef)

	assert.Equal(t, []string{"WELCOME10"}, f.coupons.committed)
	require.Len(t, f.producer.confirmations, 1)
	assert.Equal(t, "dad@example.com", f.producer.confirmations[0].Email)
	assert.Equal(t, int64(23900), f.producer.confirmations[0].AmountCents)
	require.Len(t, f.producer.statuses, 1)
	assert.Equal(t, domain.StatePaid, f.producer.statuses[0].State)
}

func TestHandlePaymentEvent_DuplicateDeliverySkipped(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "")

	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), completedEvent("evt_1", resp.OrderID)))
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), completedEvent("evt_1", resp.OrderID)))

	// 确认邮件只发一次
	assert.Len(t, f.producer.confirmations, 1)
	assert.Len(t, f.producer.statuses, 1)
}

func TestHandlePaymentEvent_SameOrderDifferentEventID(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "")

	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), completedEvent("evt_1", resp.OrderID)))
	// 去重表没兜住时，订单状态机是第二道防线
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), completedEvent("evt_2", resp.OrderID)))

	assert.Len(t, f.producer.confirmations, 1)
}

func TestHandlePaymentEvent_FallsBackToPaymentSession(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "")

	event := completedEvent("evt_1", "")
	event.Data.Metadata = nil
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), event))

	order, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaid, order.State)
}

func TestHandlePaymentEvent_ExpiredCancelsAndReleasesCoupon(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "WELCOME10")

	event := &domain.PaymentEvent{EventID: "evt_exp", Type: domain.EventCheckoutExpired}
	event.Data.Metadata = map[string]string{domain.OrderMetadataKey: resp.OrderID}
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), event))

	order, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCancelled, order.State)
	assert.Equal(t, []string{"WELCOME10"}, f.coupons.released)
}

func TestHandlePaymentEvent_UnknownTypeIgnored(t *testing.T) {
	f := newFixture(t)
	event := &domain.PaymentEvent{EventID: "evt_x", Type: "charge.refunded"}
	assert.NoError(t, f.svc.HandlePaymentEvent(context.Background(), event))
}

func TestAdvanceOrder_PublishesStatus(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "")
	require.NoError(t, f.svc.HandlePaymentEvent(context.Background(), completedEvent("evt_1", resp.OrderID)))

	view, err := f.svc.AdvanceOrder(context.Background(), resp.OrderID, &AdvanceOrderRequest{State: "in_production"})
	require.NoError(t, err)
	assert.Equal(t, "in_production", view.State)

	last := f.producer.statuses[len(f.producer.statuses)-1]
	assert.Equal(t, domain.StateInProduction, last.State)

	// 非法流转被拒绝
	_, err = f.svc.AdvanceOrder(context.Background(), resp.OrderID, &AdvanceOrderRequest{State: "delivered"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSaveDesign_ArchivesDraft(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.SaveDesign(context.Background(), &SaveDesignRequest{
		SessionID: f.sessionID,
		Email:     "dad@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RecordID)

	record, err := f.svc.GetDesign(context.Background(), resp.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "draft", record.Status)
	assert.Equal(t, "Robert Smith", record.RecipientName)
	assert.Equal(t, int64(24900), record.AmountCents)
	assert.Empty(t, record.OrderID)

	_, err = f.svc.SaveDesign(context.Background(), &SaveDesignRequest{SessionID: "missing"})
	assert.ErrorIs(t, err, customizer.ErrSessionNotFound)
}

func TestGetDesign_LocalFallback(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, "")

	order, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	require.NotEmpty(t, order.DesignRecordID)

	record, err := f.svc.GetDesign(context.Background(), order.DesignRecordID)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderID, record.OrderID)
	assert.Contains(t, record.RecordID, "local-")

	_, err = f.svc.GetDesign(context.Background(), "rec_missing")
	assert.ErrorIs(t, err, domain.ErrDesignNotFound)
}
