package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kiwari-pos/dashboard/internal/auth"
)

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestParseClaims(t *testing.T) {
	token := signToken(t, auth.Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := auth.ParseClaims(token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if claims.Role != "admin" || claims.Subject != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseClaims_Garbage(t *testing.T) {
	if _, err := auth.ParseClaims("not-a-jwt"); err == nil {
		t.Fatal("expected error for non-JWT token")
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "future exp",
			token: signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}),
			want:  false,
		},
		{
			name:  "past exp",
			token: signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}),
			want:  true,
		},
		{
			name:  "exp equals now",
			token: signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now)}),
			want:  true,
		},
		{
			name:  "no exp",
			token: signToken(t, jwt.RegisteredClaims{Subject: "x"}),
			want:  false,
		},
		{
			name:  "opaque token",
			token: "opaque-session-token",
			want:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := auth.Expired(tc.token, now); got != tc.want {
				t.Fatalf("expected %v, got: %v", tc.want, got)
			}
		})
	}
}

func TestTokenStore(t *testing.T) {
	s := auth.NewTokenStore("seed")
	if s.Token() != "seed" {
		t.Fatalf("expected seed token, got: %q", s.Token())
	}
	s.Set("next")
	if s.Token() != "next" {
		t.Fatalf("expected next token, got: %q", s.Token())
	}
	s.Clear()
	if s.Token() != "" {
		t.Fatalf("expected empty token after Clear, got: %q", s.Token())
	}
}
