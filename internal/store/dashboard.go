package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/money"
	"github.com/kiwari-pos/dashboard/internal/rawjson"
	"go.uber.org/zap"
)

// Summary is the day's overview from GET /dashboard/summary.
type Summary struct {
	TotalOrderHariIni           int64            `json:"total_order_hari_ini"`
	TotalPendapatanHariIni      money.Amount     `json:"total_pendapatan_hari_ini"`
	TotalOrderSelesaiHariIni    int64            `json:"total_order_selesai_hari_ini"`
	TotalOrderDibatalkanHariIni int64            `json:"total_order_dibatalkan_hari_ini"`
	TotalMeja                   int64            `json:"total_meja"`
	MejaTerisi                  int64            `json:"meja_terisi"`
	MejaTersedia                int64            `json:"meja_tersedia"`
	OrderStatus                 map[string]int64 `json:"order_status,omitempty"`
	MenuPopuler                 json.RawMessage  `json:"menu_populer,omitempty"`
}

// Dashboard caches the latest summary.
type Dashboard struct {
	api    api.Requester
	logger *zap.Logger
	events Publisher

	mu      sync.RWMutex
	summary *Summary
	loading bool
}

func NewDashboard(requester api.Requester, logger *zap.Logger, events Publisher) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{api: requester, logger: logger, events: orNop(events)}
}

// Summary returns a copy of the cached summary, or nil before the first Fetch.
func (d *Dashboard) Summary() *Summary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.summary == nil {
		return nil
	}
	s := *d.summary
	return &s
}

func (d *Dashboard) IsLoading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

// Fetch refreshes the summary. The previous summary survives a failure.
func (d *Dashboard) Fetch(ctx context.Context) error {
	d.setLoading(true)
	defer d.setLoading(false)

	resp, err := d.api.Do(ctx, http.MethodGet, "/dashboard/summary", nil)
	if err != nil {
		d.logger.Error("fetch dashboard summary", zap.Error(err))
		return fmt.Errorf("fetch dashboard summary: %w", err)
	}

	var s Summary
	if err := rawjson.Into(resp.Data, &s); err != nil {
		d.logger.Warn("partial dashboard summary", zap.Error(err))
	}
	if s.TotalPendapatanHariIni == "" {
		s.TotalPendapatanHariIni = money.Zero
	}

	d.mu.Lock()
	d.summary = &s
	d.mu.Unlock()
	d.events.Publish(EventDashboard, s)
	return nil
}

func (d *Dashboard) setLoading(v bool) {
	d.mu.Lock()
	d.loading = v
	d.mu.Unlock()
}
