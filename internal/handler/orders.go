package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/dashboard/internal/money"
	"github.com/kiwari-pos/dashboard/internal/order"
	"github.com/kiwari-pos/dashboard/internal/store"
	"go.uber.org/zap"
)

// OrderRepository defines the order cache operations the views need.
// Satisfied by *store.Orders; narrow interface for testability.
type OrderRepository interface {
	List() []order.Order
	Selected() *order.Detail
	State() store.OrdersState
	AllowedTransitions(status string) []string
	Fetch(ctx context.Context) error
	FetchByID(ctx context.Context, id int64) (*order.Detail, error)
	Create(ctx context.Context, req order.CreateRequest) (order.Order, error)
	Edit(ctx context.Context, id int64, req order.UpdateRequest) (order.Order, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, next string) error
	SetSelectedFromList(o order.Order)
	ClearSelected()
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	repo   OrderRepository
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(repo OrderRepository, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/selected", h.GetSelected)
	r.Delete("/selected", h.ClearSelected)
	r.Get("/transitions/{status}", h.Transitions)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Edit)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/select", h.Select)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type orderResponse struct {
	order.Order
	TotalHargaDisplay string `json:"total_harga_display"`
}

type itemResponse struct {
	order.Item
	HargaDisplay    string `json:"harga_display"`
	SubtotalDisplay string `json:"subtotal_display"`
}

type paymentResponse struct {
	order.Payment
	AmountDisplay string `json:"amount_display"`
}

type orderDetailResponse struct {
	orderResponse
	Items   []itemResponse   `json:"items"`
	Payment *paymentResponse `json:"payment"`
}

type orderListResponse struct {
	Orders []orderResponse   `json:"orders"`
	State  store.OrdersState `json:"state"`
}

type selectedResponse struct {
	Order *orderDetailResponse `json:"order"`
	State store.OrdersState    `json:"state"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type transitionsResponse struct {
	Status  string   `json:"status"`
	Allowed []string `json:"allowed"`
}

// --- Handlers ---

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Fetch(r.Context()); err != nil {
		writeUpstreamError(w, h.logger, err, "failed to load orders")
		return
	}

	orders := h.repo.List()
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, State: h.repo.State()})
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TipeOrder == "" {
		writeError(w, http.StatusBadRequest, "tipe_order is required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}
	for i, item := range req.Items {
		if item.MenuID <= 0 {
			writeError(w, http.StatusBadRequest, formatItemError(i, "menu_id is required"))
			return
		}
		if item.Jumlah <= 0 {
			writeError(w, http.StatusBadRequest, formatItemError(i, "jumlah must be > 0"))
			return
		}
	}

	created, err := h.repo.Create(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "failed to create order")
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

// Get handles GET /orders/{id}. The loaded order becomes the selected one.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	detail, err := h.repo.FetchByID(r.Context(), id)
	if err != nil {
		msg := h.repo.State().DetailError
		if msg == "" {
			msg = store.DetailLoadFailedMessage
		}
		writeUpstreamError(w, h.logger, err, msg)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// Edit handles PATCH /orders/{id}.
func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req order.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != nil && !order.IsKnownStatus(*req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	updated, err := h.repo.Edit(r.Context(), id, req)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "failed to update order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Delete handles DELETE /orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeUpstreamError(w, h.logger, err, "failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus handles PATCH /orders/{id}/status and answers with the
// reconciled detail order.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	if !order.IsKnownStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeUpstreamError(w, h.logger, err, "failed to update order status")
		return
	}

	detail := h.repo.Selected()
	if detail == nil || detail.ID != id {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// Transitions handles GET /orders/transitions/{status}.
func (h *OrderHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	writeJSON(w, http.StatusOK, transitionsResponse{
		Status:  status,
		Allowed: h.repo.AllowedTransitions(status),
	})
}

// GetSelected handles GET /orders/selected.
func (h *OrderHandler) GetSelected(w http.ResponseWriter, r *http.Request) {
	resp := selectedResponse{State: h.repo.State()}
	if detail := h.repo.Selected(); detail != nil {
		d := toOrderDetailResponse(detail)
		resp.Order = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClearSelected handles DELETE /orders/selected.
func (h *OrderHandler) ClearSelected(w http.ResponseWriter, r *http.Request) {
	h.repo.ClearSelected()
	w.WriteHeader(http.StatusNoContent)
}

// Select handles POST /orders/{id}/select: shows a list entry as the detail
// order before its lines are loaded.
func (h *OrderHandler) Select(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	for _, o := range h.repo.List() {
		if o.ID == id {
			h.repo.SetSelectedFromList(o)
			d := order.DetailFromOrder(o)
			writeJSON(w, http.StatusOK, toOrderDetailResponse(&d))
			return
		}
	}
	writeError(w, http.StatusNotFound, "order not found")
}

// --- Helpers ---

func formatItemError(index int, msg string) string {
	return fmt.Sprintf("items[%d]: %s", index, msg)
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{Order: o, TotalHargaDisplay: money.FormatRupiah(o.TotalHarga)}
}

func toOrderDetailResponse(d *order.Detail) orderDetailResponse {
	items := make([]itemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = itemResponse{
			Item:            it,
			HargaDisplay:    money.FormatRupiah(it.Harga),
			SubtotalDisplay: money.FormatRupiah(it.Subtotal),
		}
	}

	resp := orderDetailResponse{
		orderResponse: toOrderResponse(d.Order),
		Items:         items,
	}
	if d.Payment != nil {
		resp.Payment = &paymentResponse{
			Payment:       *d.Payment,
			AmountDisplay: money.FormatRupiah(d.Payment.Amount),
		}
	}
	return resp
}
