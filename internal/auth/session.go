package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/rawjson"
	"go.uber.org/zap"
)

var (
	ErrLoginFailed = errors.New("login failed")
	ErrNoToken     = errors.New("login response has no access_token")
)

// User is the signed-in account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session produces and drops the bearer credential the api client sends.
type Session struct {
	api    api.Requester
	tokens *TokenStore
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	user *User
}

// NewSession creates a Session around tokens, which must be the same store
// the api client reads from.
func NewSession(requester api.Requester, tokens *TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{api: requester, tokens: tokens, logger: logger, now: time.Now}
}

// Login exchanges credentials for an access token (OAuth2 password form),
// stores it, and loads the profile.
func (s *Session) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", "")
	form.Set("client_id", "")
	form.Set("client_secret", "")

	resp, err := s.api.Do(ctx, http.MethodPost, "/auth/login", form)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	rec, _ := rawjson.AsRecord(resp.Data)
	v, _ := rec.Get("access_token")
	token, _ := v.(string)
	if token == "" {
		return fmt.Errorf("%w: %w", ErrLoginFailed, ErrNoToken)
	}
	s.tokens.Set(token)

	if _, err := s.FetchProfile(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	return nil
}

// Logout tells the backend and always clears local state, even when the
// backend call fails.
func (s *Session) Logout(ctx context.Context) {
	if _, err := s.api.Do(ctx, http.MethodPost, "/auth/logout", nil); err != nil {
		s.logger.Debug("logout request failed", zap.Error(err))
	}
	s.tokens.Clear()
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// FetchProfile loads the current user. Any failure logs the session out.
func (s *Session) FetchProfile(ctx context.Context) (*User, error) {
	resp, err := s.api.Do(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		s.logger.Warn("fetch profile failed, logging out", zap.Error(err))
		s.Logout(ctx)
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	u := s.toUser(resp.Data)
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return &u, nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Username returns the signed-in username or "".
func (s *Session) Username() string {
	if u := s.User(); u != nil {
		return u.Username
	}
	return ""
}

// Token returns the current bearer credential.
func (s *Session) Token() string {
	return s.tokens.Token()
}

// IsAuthenticated reports whether a credential is held and not expired.
func (s *Session) IsAuthenticated() bool {
	token := s.tokens.Token()
	return token != "" && !Expired(token, s.now())
}

func (s *Session) toUser(data any) User {
	var u User
	if err := rawjson.Into(data, &u); err != nil {
		s.logger.Debug("profile payload partially decoded", zap.Error(err))
	}
	return u
}
