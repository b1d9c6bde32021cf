package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"caddie/internal/service/customizer/application"
	"caddie/internal/service/customizer/domain"
)

// CustomizerHandler 封装了定制向导的 HTTP 处理器
type CustomizerHandler struct {
	service *application.CustomizerService
}

// NewCustomizerHandler 创建一个新的 HTTP 处理器实例
func NewCustomizerHandler(service *application.CustomizerService) *CustomizerHandler {
	return &CustomizerHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CustomizerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/customize/catalog", h.handleGetCatalog)
	mux.HandleFunc("POST /api/customize/session", h.handleCreateSession)
	mux.HandleFunc("GET /api/customize/session/{id}", h.handleGetSession)
	mux.HandleFunc("POST /api/customize/session/{id}/preset", h.handleSelectPreset)
	mux.HandleFunc("POST /api/customize/session/{id}/recipient", h.handleSetRecipient)
	mux.HandleFunc("POST /api/customize/session/{id}/crest", h.handleSetCrest)
	mux.HandleFunc("POST /api/customize/session/{id}/items/{itemKey}", h.handleUpdateItem)
	mux.HandleFunc("POST /api/customize/session/{id}/gift-options", h.handleSetGiftOptions)
	mux.HandleFunc("POST /api/customize/session/{id}/quantity", h.handleSetQuantity)
	mux.HandleFunc("POST /api/customize/session/{id}/next", h.handleNext)
	mux.HandleFunc("POST /api/customize/session/{id}/previous", h.handlePrevious)
	mux.HandleFunc("POST /api/customize/session/{id}/step", h.handleGotoStep)
}

func extractContext(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

func (h *CustomizerHandler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)
	writeJSON(w, http.StatusOK, h.service.GetCatalog(r.Context()))
}

func (h *CustomizerHandler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var req application.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.CreateSession(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *CustomizerHandler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	view, err := h.service.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleSelectPreset(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var req application.SelectPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SelectPreset(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleSetRecipient(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var req application.SetRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SetRecipient(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleSetCrest(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var patch domain.CrestPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SetCrest(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.UpdateItem(r.Context(), r.PathValue("id"), r.PathValue("itemKey"), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleSetGiftOptions(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var patch domain.GiftOptionsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SetGiftOptions(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var req application.SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SetQuantity(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleNext(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	view, err := h.service.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handlePrevious(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	view, err := h.service.Previous(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CustomizerHandler) handleGotoStep(w http.ResponseWriter, r *http.Request) {
	r = extractContext(r)

	var req application.GotoStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.GotoStep(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func writeError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownPreset), domain.IsValidation(err):
		statusCode = http.StatusBadRequest
	default:
		statusCode = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), statusCode)
}
