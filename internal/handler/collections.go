package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/dashboard/internal/middleware"
	"github.com/kiwari-pos/dashboard/internal/store"
	"go.uber.org/zap"
)

// Lister defines the cached-collection reads the list views need.
type Lister[T any] interface {
	Name() string
	Fetch(ctx context.Context) error
	List() []T
	Get(id int64) (T, bool)
}

// Mutator defines the collection writes. I is the request body.
type Mutator[T, I any] interface {
	Create(ctx context.Context, in I) (T, error)
	Update(ctx context.Context, id int64, in I) (T, error)
	Delete(ctx context.Context, id int64) error
}

// CollectionStore is a readable and writable collection.
// Satisfied by *store.Collection; narrow interface for testability.
type CollectionStore[T, I any] interface {
	Lister[T]
	Mutator[T, I]
}

// validator is implemented by request bodies that check their own fields.
type validator interface {
	Validate() error
}

// CollectionHandler serves a backend collection through its session cache.
type CollectionHandler[T, I any] struct {
	src     CollectionStore[T, I]
	present func(T) any
	logger  *zap.Logger
}

// NewCollectionHandler creates a handler for src. present, when non-nil,
// shapes each entity for the response.
func NewCollectionHandler[T, I any](src CollectionStore[T, I], present func(T) any, logger *zap.Logger) *CollectionHandler[T, I] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if present == nil {
		present = func(v T) any { return v }
	}
	return &CollectionHandler[T, I]{src: src, present: present, logger: logger}
}

// RegisterRoutes registers collection endpoints on the given Chi router.
func (h *CollectionHandler[T, I]) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List refreshes the collection and returns it.
func (h *CollectionHandler[T, I]) List(w http.ResponseWriter, r *http.Request) {
	name := h.src.Name()
	if err := h.src.Fetch(r.Context()); err != nil {
		writeUpstreamError(w, h.logger, err, "failed to load "+name)
		return
	}

	items := h.src.List()
	resp := make([]any, len(items))
	for i, it := range items {
		resp[i] = h.present(it)
	}
	writeJSON(w, http.StatusOK, map[string]any{name: resp})
}

// Get returns one cached entity.
func (h *CollectionHandler[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ID")
		return
	}

	it, found := h.src.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, h.present(it))
}

// Create handles POST on the collection.
func (h *CollectionHandler[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[I](w, r)
	if !ok {
		return
	}

	created, err := h.src.Create(r.Context(), in)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "failed to create "+h.src.Name())
		return
	}
	h.logger.Info("entity created", zap.String("collection", h.src.Name()), operator(r))
	writeJSON(w, http.StatusCreated, h.present(created))
}

// Update handles PATCH /{id}.
func (h *CollectionHandler[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ID")
		return
	}
	in, ok := decodeInput[I](w, r)
	if !ok {
		return
	}

	updated, err := h.src.Update(r.Context(), id, in)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "failed to update "+h.src.Name())
		return
	}
	h.logger.Info("entity updated", zap.String("collection", h.src.Name()), zap.Int64("id", id), operator(r))
	writeJSON(w, http.StatusOK, h.present(updated))
}

// Delete handles DELETE /{id}.
func (h *CollectionHandler[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ID")
		return
	}

	if err := h.src.Delete(r.Context(), id); err != nil {
		writeUpstreamError(w, h.logger, err, "failed to delete "+h.src.Name())
		return
	}
	h.logger.Info("entity deleted", zap.String("collection", h.src.Name()), zap.Int64("id", id), operator(r))
	w.WriteHeader(http.StatusNoContent)
}

func decodeInput[I any](w http.ResponseWriter, r *http.Request) (I, bool) {
	var in I
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return in, false
	}
	if v, ok := any(&in).(validator); ok {
		if err := v.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return in, false
		}
	}
	return in, true
}

// operator is the signed-in user behind a write, for audit logs.
func operator(r *http.Request) zap.Field {
	return zap.String("username", middleware.UsernameFromContext(r.Context()))
}

// --- Presenters ---

type menuResponse struct {
	store.Menu
	HargaDisplay string `json:"harga_display"`
}

// PresentMenu adds the Rupiah rendering of the price.
func PresentMenu(m store.Menu) any {
	return menuResponse{Menu: m, HargaDisplay: m.Harga.Display()}
}

type paymentEntityResponse struct {
	store.Payment
	AmountDisplay string `json:"amount_display"`
}

// PresentPayment adds the Rupiah rendering of the amount.
func PresentPayment(p store.Payment) any {
	return paymentEntityResponse{Payment: p, AmountDisplay: p.Amount.Display()}
}
