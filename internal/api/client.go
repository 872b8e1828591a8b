// Package api is the HTTP collaborator every store talks to the backend through.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/dashboard/internal/rawjson"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a per-request UUID for correlating logs.
const RequestIDHeader = "X-Request-ID"

// Requester sends one request and returns its decoded body.
// Satisfied by *Client; narrow interface for testability.
type Requester interface {
	Do(ctx context.Context, method, path string, body any) (*Response, error)
}

// HTTPClient is the transport used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenStore holds the bearer credential. Clear is called when the backend
// answers 401.
type TokenStore interface {
	Token() string
	Clear()
}

// Response is a decoded 2xx response. Data is nil for an empty body and is
// otherwise a value produced by rawjson.Decode.
type Response struct {
	Data   any
	Status int
}

// Options configures a Client. Zero values pick sensible defaults.
type Options struct {
	HTTPClient      HTTPClient
	Tokens          TokenStore
	RateLimit       float64 // requests per second, <= 0 means unlimited
	BreakerFailures int     // consecutive 5xx/transport failures before opening
	BreakerTimeout  time.Duration
	Logger          *zap.Logger
}

// Client talks JSON to the backend.
type Client struct {
	baseURL string
	hc      HTTPClient
	tokens  TokenStore
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a Client for baseURL (no trailing slash).
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	failures := opts.BreakerFailures
	if failures <= 0 {
		failures = 5
	}
	timeout := opts.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
		tokens:  opts.Tokens,
		limiter: limiter,
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "backend",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			// A 4xx is the backend answering; only transport errors and 5xx count.
			return err == nil || (StatusOf(err) > 0 && StatusOf(err) < 500)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// Do sends method path with body encoded as JSON, or as a form when body is
// url.Values. A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, method, path, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
		}
		return nil, err
	}
	return out.(*Response), nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*Response, error) {
	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
			c.tokens.Clear()
		}
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return &Response{Status: resp.StatusCode}, nil
	}
	data, err := rawjson.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return &Response{Data: data, Status: resp.StatusCode}, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "application/json", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(buf), "application/json", nil
}

// errorMessage prefers the body's "message", then a string "detail".
func errorMessage(raw []byte, status int) string {
	v, err := rawjson.Decode(raw)
	if err != nil {
		return defaultMessage(status)
	}
	rec, ok := rawjson.AsRecord(v)
	if !ok {
		return defaultMessage(status)
	}
	for _, key := range []string{"message", "detail"} {
		if msg, ok := rec.Get(key); ok {
			if s, isStr := msg.(string); isStr && s != "" {
				return s
			}
		}
	}
	return defaultMessage(status)
}
