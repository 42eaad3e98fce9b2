package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	errors "github.com/orderhub/order-management/internal"
	"github.com/orderhub/order-management/internal/transport"
)

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: *transport.NewBaseHandler(logger),
		Service:     service,
	}
}

// CreateSession handles POST /api/v1/orders/{orderID}/payment-sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.pathUUID(w, r, "orderID", "invalid order id")
	if !ok {
		return
	}

	var dto CreateSessionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateSession: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleError(w, err)
		return
	}

	session, err := h.Service.CreateSession(r.Context(), orderID, dto.ReturnURL)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /api/v1/payment-sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathUUID(w, r, "sessionID", "invalid session id")
	if !ok {
		return
	}

	session, err := h.Service.GetSession(r.Context(), sessionID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}

// RefreshSession handles POST /api/v1/payment-sessions/{sessionID}/refresh
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathUUID(w, r, "sessionID", "invalid session id")
	if !ok {
		return
	}

	result, err := h.Service.Refresh(r.Context(), sessionID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"changed":    result.Changed,
		"status":     result.Status,
	})
}

// CancelSession handles POST /api/v1/payment-sessions/{sessionID}/cancel
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathUUID(w, r, "sessionID", "invalid session id")
	if !ok {
		return
	}

	if err := h.Service.Cancel(r.Context(), sessionID); err != nil {
		h.HandleError(w, err)
		return
	}

	session, err := h.Service.GetSession(r.Context(), sessionID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}

// ListOrderPayments handles GET /api/v1/orders/{orderID}/payments
func (h *Handler) ListOrderPayments(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.pathUUID(w, r, "orderID", "invalid order id")
	if !ok {
		return
	}

	payments, err := h.Service.ListOrderPayments(r.Context(), orderID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"order_id": orderID,
		"payments": payments,
	})
}

func (h *Handler) pathUUID(w http.ResponseWriter, r *http.Request, name, message string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Logger.Error(message, name, raw)
		h.HandleError(w, errors.NewValidationError(message, errors.ErrCodeInvalidUUID))
		return uuid.Nil, false
	}
	return id, true
}
