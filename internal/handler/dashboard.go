package handler

import (
	"context"
	"net/http"

	"github.com/kiwari-pos/dashboard/internal/store"
	"go.uber.org/zap"
)

// SummarySource defines the dashboard cache operations the view needs.
// Satisfied by *store.Dashboard; narrow interface for testability.
type SummarySource interface {
	Fetch(ctx context.Context) error
	Summary() *store.Summary
}

// DashboardHandler serves the day's summary.
type DashboardHandler struct {
	src    SummarySource
	logger *zap.Logger
}

func NewDashboardHandler(src SummarySource, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{src: src, logger: logger}
}

type summaryResponse struct {
	store.Summary
	TotalPendapatanHariIniDisplay string `json:"total_pendapatan_hari_ini_display"`
}

// Summary handles GET /dashboard.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if err := h.src.Fetch(r.Context()); err != nil {
		writeUpstreamError(w, h.logger, err, "failed to load dashboard summary")
		return
	}

	s := h.src.Summary()
	if s == nil {
		writeError(w, http.StatusBadGateway, "failed to load dashboard summary")
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:                       *s,
		TotalPendapatanHariIniDisplay: s.TotalPendapatanHariIni.Display(),
	})
}
