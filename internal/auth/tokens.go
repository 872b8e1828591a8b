package auth

import "sync"

// TokenStore keeps the bearer credential in memory for the session.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a store seeded with token (may be empty).
func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *TokenStore) Clear() {
	s.Set("")
}
