package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/dashboard/internal/api"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError maps a backend failure onto the view API. Backend 4xx
// answers keep their status and message; anything else is a gateway error.
func writeUpstreamError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	if errors.Is(err, api.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "backend unavailable")
		return
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		writeError(w, apiErr.Status, apiErr.Message)
		return
	}

	logger.Error(fallback, zap.Error(err))
	writeError(w, http.StatusBadGateway, fallback)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
