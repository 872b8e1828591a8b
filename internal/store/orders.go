// Package store holds the dashboard's in-memory session state and keeps it
// in step with the backend.
package store

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/money"
	"github.com/kiwari-pos/dashboard/internal/order"
	"go.uber.org/zap"
)

// DetailLoadFailedMessage is shown when an order detail cannot be loaded.
const DetailLoadFailedMessage = "Gagal memuat detail order."

// OrdersState is a snapshot of the repository's progress flags.
type OrdersState struct {
	IsLoading        bool   `json:"is_loading"`
	IsDetailLoading  bool   `json:"is_detail_loading"`
	IsStatusUpdating bool   `json:"is_status_updating"`
	DetailError      string `json:"detail_error"`
}

// Orders owns the list of known orders and the one selected detail order.
// Every write replaces whole normalized entries; a failed backend call
// leaves state as it was. The lock is never held across a backend call.
type Orders struct {
	api    api.Requester
	logger *zap.Logger
	events Publisher

	mu       sync.RWMutex
	list     []order.Order
	selected *order.Detail
	state    OrdersState
}

// NewOrders creates an empty repository.
func NewOrders(requester api.Requester, logger *zap.Logger, events Publisher) *Orders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orders{
		api:    requester,
		logger: logger,
		events: orNop(events),
		list:   []order.Order{},
	}
}

// --- Snapshots ---

// List returns a copy of the order list.
func (s *Orders) List() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]order.Order, len(s.list))
	copy(out, s.list)
	return out
}

// Selected returns a copy of the selected detail order, or nil.
func (s *Orders) Selected() *order.Detail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDetail(s.selected)
}

// State returns the progress flags and the last detail error.
func (s *Orders) State() OrdersState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AllowedTransitions returns the statuses reachable from status.
func (s *Orders) AllowedTransitions(status string) []string {
	return order.AllowedTransitions(status)
}

// --- Reads ---

// Fetch replaces the list with GET /order. On failure the previous list is
// kept and the error is returned for the caller to show or ignore.
func (s *Orders) Fetch(ctx context.Context) error {
	s.setFlag(func(st *OrdersState) { st.IsLoading = true })
	defer s.setFlag(func(st *OrdersState) { st.IsLoading = false })

	resp, err := s.api.Do(ctx, http.MethodGet, "/order", nil)
	if err != nil {
		s.logger.Error("fetch orders", zap.Error(err))
		return fmt.Errorf("fetch orders: %w", err)
	}

	list := order.NormalizeList(resp.Data)
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()

	s.events.Publish(EventOrderList, s.List())
	return nil
}

// FetchByID loads GET /order/{id} into the selected slot. On failure the
// slot is left untouched and DetailError is set.
func (s *Orders) FetchByID(ctx context.Context, id int64) (*order.Detail, error) {
	s.setFlag(func(st *OrdersState) {
		st.IsDetailLoading = true
		st.DetailError = ""
	})
	defer s.setFlag(func(st *OrdersState) { st.IsDetailLoading = false })

	resp, err := s.api.Do(ctx, http.MethodGet, orderPath(id), nil)
	if err != nil {
		s.logger.Error("fetch order detail", zap.Int64("order_id", id), zap.Error(err))
		s.setFlag(func(st *OrdersState) { st.DetailError = DetailLoadFailedMessage })
		return nil, fmt.Errorf("fetch order %d: %w", id, err)
	}

	detail := order.NormalizeDetail(resp.Data)
	s.mu.Lock()
	s.selected = &detail
	s.mu.Unlock()

	s.events.Publish(EventOrderSelected, cloneDetail(&detail))
	return cloneDetail(&detail), nil
}

// --- Writes ---

// Create sends POST /order and puts the new order at the top of the list.
func (s *Orders) Create(ctx context.Context, req order.CreateRequest) (order.Order, error) {
	resp, err := s.api.Do(ctx, http.MethodPost, "/order", req)
	if err != nil {
		s.logger.Error("create order", zap.Error(err))
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}

	created := order.NormalizeBase(resp.Data)
	s.mu.Lock()
	s.list = append([]order.Order{created}, s.list...)
	s.mu.Unlock()

	s.events.Publish(EventOrderList, s.List())
	return created, nil
}

// Edit sends PATCH /order/{id} and writes the normalized result into the
// list and, when it is the selected order, over the selected order's base
// fields (lines and payment are kept).
func (s *Orders) Edit(ctx context.Context, id int64, req order.UpdateRequest) (order.Order, error) {
	resp, err := s.api.Do(ctx, http.MethodPatch, orderPath(id), req)
	if err != nil {
		s.logger.Error("edit order", zap.Int64("order_id", id), zap.Error(err))
		return order.Order{}, fmt.Errorf("edit order %d: %w", id, err)
	}

	updated := order.NormalizeBase(resp.Data)
	s.mu.Lock()
	s.upsertLocked(updated)
	selectedChanged := s.selected != nil && s.selected.ID == id
	if selectedChanged {
		s.selected.Order = updated
	}
	s.mu.Unlock()

	s.events.Publish(EventOrderList, s.List())
	if selectedChanged {
		s.events.Publish(EventOrderSelected, s.Selected())
	}
	return updated, nil
}

// Delete sends DELETE /order/{id}, drops the order from the list and clears
// the selected slot if it held that order.
func (s *Orders) Delete(ctx context.Context, id int64) error {
	if _, err := s.api.Do(ctx, http.MethodDelete, orderPath(id), nil); err != nil {
		s.logger.Error("delete order", zap.Int64("order_id", id), zap.Error(err))
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	s.mu.Lock()
	kept := make([]order.Order, 0, len(s.list))
	for _, o := range s.list {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	s.list = kept
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
		s.state.DetailError = ""
	}
	s.mu.Unlock()

	s.events.Publish(EventOrderDeleted, map[string]int64{"id": id})
	return nil
}

// UpdateStatus moves an order to next.
//
// When the selected order is id and its status is a known workflow state,
// the change is checked first and an *order.InvalidTransitionError is
// returned without contacting the backend. Otherwise the change is sent
// optimistically. The PATCH and the reconciling GET run strictly in that
// order; any failure is returned.
func (s *Orders) UpdateStatus(ctx context.Context, id int64, next string) error {
	s.mu.RLock()
	current := ""
	if s.selected != nil && s.selected.ID == id {
		current = s.selected.Status
	}
	s.mu.RUnlock()

	if current != "" {
		if err := order.ValidateTransition(current, next); err != nil {
			return err
		}
	}

	s.setFlag(func(st *OrdersState) { st.IsStatusUpdating = true })
	defer s.setFlag(func(st *OrdersState) { st.IsStatusUpdating = false })

	if _, err := s.Edit(ctx, id, order.UpdateRequest{Status: &next}); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if _, err := s.FetchByID(ctx, id); err != nil {
		return fmt.Errorf("update order status: reconcile: %w", err)
	}
	return nil
}

// --- Local state ---

// Upsert replaces the list entry with o's ID, or prepends o when absent.
func (s *Orders) Upsert(o order.Order) {
	o.TotalHarga = money.Canonicalize(o.TotalHarga)
	s.mu.Lock()
	s.upsertLocked(o)
	s.mu.Unlock()
	s.events.Publish(EventOrderList, s.List())
}

// SetSelectedFromList shows a list entry as the detail order until the full
// detail is fetched.
func (s *Orders) SetSelectedFromList(o order.Order) {
	d := order.DetailFromOrder(o)
	s.mu.Lock()
	s.selected = &d
	s.state.DetailError = ""
	s.mu.Unlock()
	s.events.Publish(EventOrderSelected, cloneDetail(&d))
}

// ClearSelected empties the selected slot and the detail error.
func (s *Orders) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.state.DetailError = ""
	s.mu.Unlock()
	s.events.Publish(EventOrderSelected, nil)
}

func (s *Orders) upsertLocked(o order.Order) {
	for i := range s.list {
		if s.list[i].ID == o.ID {
			s.list[i] = o
			return
		}
	}
	s.list = append([]order.Order{o}, s.list...)
}

func (s *Orders) setFlag(fn func(st *OrdersState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

func orderPath(id int64) string {
	return fmt.Sprintf("/order/%d", id)
}

func cloneDetail(d *order.Detail) *order.Detail {
	if d == nil {
		return nil
	}
	c := *d
	c.Items = make([]order.Item, len(d.Items))
	copy(c.Items, d.Items)
	if d.Payment != nil {
		p := *d.Payment
		c.Payment = &p
	}
	return &c
}
