package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/auth"
	"go.uber.org/zap"
)

// SessionManager defines the session operations auth handlers need.
// Satisfied by *auth.Session; narrow interface for testability.
type SessionManager interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
	User() *auth.User
}

// AuthHandler handles sign-in and sign-out against the backend.
type AuthHandler struct {
	session SessionManager
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(session SessionManager, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{session: session, logger: logger}
}

// RegisterRoutes registers the public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *auth.User `json:"user"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.session.Login(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "backend unavailable")
			return
		}
		status := api.StatusOf(err)
		if status == http.StatusUnauthorized || status == http.StatusBadRequest || errors.Is(err, auth.ErrNoToken) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login", zap.Error(err))
		writeError(w, http.StatusBadGateway, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: h.session.User()})
}

// Logout handles POST /auth/logout. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.session.User()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
