package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"quickbite/internal/middleware"
	"quickbite/internal/model"
	"quickbite/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	var req model.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	confirmation, err := h.service.PlaceOrder(r.Context(), identity.UserID, req.DeliveryAddress, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, "order placed", confirmation)
}

// ListMine handles GET /api/orders requests.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, "orders retrieved", orders)
}

// GetByID handles GET /api/orders/{id} requests. Only the order's owner
// or an admin may read it.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	orderID, ok := orderIDFromPath(r.URL.Path, "")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	detail, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	if detail.Order.UserID != identity.UserID && !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "order retrieved", detail)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests (admin only).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}
	if !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", h.logger)
		return
	}

	orderID, ok := orderIDFromPath(r.URL.Path, "/status")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "order status updated", nil)
}

// ListAll handles GET /api/admin/orders requests. The optional from/to
// query parameters (YYYY-MM-DD) bound the creation date; to is inclusive
// of the whole day.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	orders, err := h.service.ListAll(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, "orders retrieved", orders)
}

// ListPayments handles GET /api/admin/payments requests.
func (h *OrderHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}

	writeJSON(w, http.StatusOK, "payments retrieved", payments)
}

// SalesReport handles GET /api/admin/reports/sales requests. Both from
// and to (YYYY-MM-DD) are required; to is inclusive of the whole day.
func (h *OrderHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if from == nil || to == nil {
		writeError(w, http.StatusBadRequest, "from and to dates are required", h.logger)
		return
	}

	report, err := h.service.SalesReport(r.Context(), *from, *to)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if report == nil {
		report = []model.SalesReportRow{}
	}

	writeJSON(w, http.StatusOK, "sales report generated", report)
}

func (h *OrderHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return false
	}
	if !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", h.logger)
		return false
	}
	return true
}

// orderIDFromPath parses the order UUID out of /api/orders/{id}<suffix>.
func orderIDFromPath(path, suffix string) (uuid.UUID, bool) {
	const prefix = "/api/orders/"
	if !strings.HasPrefix(path, prefix) {
		return uuid.Nil, false
	}
	idStr := strings.TrimSuffix(path[len(prefix):], suffix)
	idStr = strings.TrimSuffix(idStr, "/")

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// dateRange parses the optional from/to query parameters. to is advanced
// by one day so the range covers the named day fully.
func dateRange(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, errDateFormat
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, errDateFormat
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}

	return from, to, nil
}

var errDateFormat = &model.DomainError{
	Code:    model.ErrCodeInvalidDate,
	Message: "dates must use the YYYY-MM-DD format",
}
