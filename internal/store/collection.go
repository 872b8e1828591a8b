package store

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/rawjson"
	"go.uber.org/zap"
)

// Collection is a cached backend resource list with create, update and
// delete. T is the entity as read; I is the request body as written.
type Collection[T Entity, I any] struct {
	name    string
	path    string
	api     api.Requester
	logger  *zap.Logger
	events  Publisher
	prepare func(I) I

	mu      sync.RWMutex
	items   []T
	loading bool
}

// NewCollection creates an empty collection backed by path. prepare, when
// non-nil, rewrites every request body before it is sent.
func NewCollection[T Entity, I any](name, path string, requester api.Requester, logger *zap.Logger, events Publisher, prepare func(I) I) *Collection[T, I] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T, I]{
		name:    name,
		path:    path,
		api:     requester,
		logger:  logger.With(zap.String("collection", name)),
		events:  orNop(events),
		prepare: prepare,
		items:   []T{},
	}
}

// Name returns the collection's event prefix.
func (c *Collection[T, I]) Name() string {
	return c.name
}

// List returns a copy of the cached items.
func (c *Collection[T, I]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the cached item with id.
func (c *Collection[T, I]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// IsLoading reports whether a Fetch is in flight.
func (c *Collection[T, I]) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Fetch replaces the cache with the backend list. Entries that do not decode
// are skipped.
func (c *Collection[T, I]) Fetch(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	resp, err := c.api.Do(ctx, http.MethodGet, c.path, nil)
	if err != nil {
		c.logger.Error("fetch", zap.Error(err))
		return fmt.Errorf("fetch %s: %w", c.name, err)
	}

	items := make([]T, 0)
	for _, raw := range listOf(resp.Data) {
		var it T
		if err := rawjson.Into(raw, &it); err != nil {
			c.logger.Warn("skip undecodable entry", zap.Error(err))
			continue
		}
		items = append(items, it)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.publish()
	return nil
}

// Create sends POST and appends the returned entity.
func (c *Collection[T, I]) Create(ctx context.Context, in I) (T, error) {
	var zero T
	resp, err := c.api.Do(ctx, http.MethodPost, c.path, c.body(in))
	if err != nil {
		c.logger.Error("create", zap.Error(err))
		return zero, fmt.Errorf("create %s: %w", c.name, err)
	}

	created, err := decodeEntity[T](resp.Data)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", c.name, err)
	}

	c.mu.Lock()
	c.items = append(c.items, created)
	c.mu.Unlock()
	c.publish()
	return created, nil
}

// Update sends PATCH and replaces the cached entity with the same ID. An
// entity not in the cache is not added.
func (c *Collection[T, I]) Update(ctx context.Context, id int64, in I) (T, error) {
	var zero T
	resp, err := c.api.Do(ctx, http.MethodPatch, c.itemPath(id), c.body(in))
	if err != nil {
		c.logger.Error("update", zap.Int64("id", id), zap.Error(err))
		return zero, fmt.Errorf("update %s %d: %w", c.name, id, err)
	}

	updated, err := decodeEntity[T](resp.Data)
	if err != nil {
		return zero, fmt.Errorf("update %s %d: %w", c.name, id, err)
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items[i] = updated
			break
		}
	}
	c.mu.Unlock()
	c.publish()
	return updated, nil
}

// Delete sends DELETE and drops the cached entity.
func (c *Collection[T, I]) Delete(ctx context.Context, id int64) error {
	if _, err := c.api.Do(ctx, http.MethodDelete, c.itemPath(id), nil); err != nil {
		c.logger.Error("delete", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete %s %d: %w", c.name, id, err)
	}

	c.mu.Lock()
	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()
	c.publish()
	return nil
}

func (c *Collection[T, I]) body(in I) I {
	if c.prepare != nil {
		return c.prepare(in)
	}
	return in
}

func (c *Collection[T, I]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", c.path, id)
}

func (c *Collection[T, I]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Collection[T, I]) publish() {
	c.events.Publish(listEvent(c.name), c.List())
}

// decodeEntity reads an entity from a bare record or a {"data": {...}} envelope.
func decodeEntity[T any](data any) (T, error) {
	var out T
	if rec, ok := rawjson.AsRecord(data); ok {
		if inner, ok := rec.Get("data"); ok {
			if _, isRec := rawjson.AsRecord(inner); isRec {
				data = inner
			}
		}
	}
	if err := rawjson.Into(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", api.ErrMalformedResponse, err)
	}
	return out, nil
}

// listOf reads a bare array or the array under "data".
func listOf(data any) []any {
	switch v := data.(type) {
	case []any:
		return v
	default:
		if rec, ok := rawjson.AsRecord(v); ok {
			if inner, ok := rec.Get("data"); ok {
				if arr, ok := inner.([]any); ok {
					return arr
				}
			}
		}
	}
	return nil
}
