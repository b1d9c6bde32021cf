package interfaces

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/application"
	"caddie/internal/service/checkout/domain"
	customizer "caddie/internal/service/customizer/domain"
)

// maxWebhookBody 限制 webhook 请求体大小，防御异常投递
const maxWebhookBody = 1 << 20

// CheckoutHandler 封装了结算域的 HTTP 处理器
type CheckoutHandler struct {
	service  *application.CheckoutService
	verifier *SignatureVerifier
}

// NewCheckoutHandler 创建一个新的 HTTP 处理器实例
func NewCheckoutHandler(service *application.CheckoutService, verifier *SignatureVerifier) *CheckoutHandler {
	return &CheckoutHandler{service: service, verifier: verifier}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/checkout/create", h.handleCreateCheckout)
	mux.HandleFunc("POST /api/webhooks/payment", h.handlePaymentWebhook)
	mux.HandleFunc("GET /api/orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /api/orders/{id}/status", h.handleAdvanceOrder)
	mux.HandleFunc("POST /api/designs", h.handleSaveDesign)
	mux.HandleFunc("GET /api/designs/{recordId}", h.handleGetDesign)
}

func (h *CheckoutHandler) handleSaveDesign(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.SaveDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.SaveDesign(ctx, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *CheckoutHandler) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Email == "" {
		http.Error(w, "sessionId and email are required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateCheckout(ctx, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handlePaymentWebhook 处理支付网关回调。
// 签名不合法返回 400；签名通过后无论业务处理成败都应答 200 {received:true}，
// 处理失败靠日志与告警兜底，而不是让网关无限重试一个会永远失败的事件。
func (h *CheckoutHandler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(body, r.Header.Get(SignatureHeader)); err != nil {
		logger.Ctx(ctx).Warn().Msg("webhook signature verification failed")
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	var event domain.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return
	}

	if err := h.service.HandlePaymentEvent(ctx, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("event_id", event.EventID).
			Str("type", event.Type).
			Msg("failed to process payment event")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(application.WebhookAck{Received: true})
}

func (h *CheckoutHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	view, err := h.service.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *CheckoutHandler) handleAdvanceOrder(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.AdvanceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.AdvanceOrder(ctx, r.PathValue("id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *CheckoutHandler) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	record, err := h.service.GetDesign(ctx, r.PathValue("recordId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func (h *CheckoutHandler) writeError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrDesignNotFound),
		errors.Is(err, customizer.ErrSessionNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, customizer.ErrUnknownPreset),
		customizer.IsValidation(err):
		statusCode = http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentUnavailable):
		statusCode = http.StatusServiceUnavailable
	default:
		statusCode = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), statusCode)
}
