// Package app wires the dashboard together and runs it until a signal.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/auth"
	"github.com/kiwari-pos/dashboard/internal/config"
	"github.com/kiwari-pos/dashboard/internal/logger"
	"github.com/kiwari-pos/dashboard/internal/router"
	"github.com/kiwari-pos/dashboard/internal/store"
	"github.com/kiwari-pos/dashboard/internal/ws"
	"go.uber.org/zap"
)

// App is a fully wired dashboard.
type App struct {
	Config  *config.Config
	Session *auth.Session
	Stores  *store.Stores
	Hub     *ws.Hub
	Handler http.Handler

	logger *zap.Logger
}

// New builds every component from cfg. Stores publish change events to
// the hub; the api client and the session share one token store.
func New(cfg *config.Config, log *zap.Logger) *App {
	log = logger.OrNop(log)

	tokens := auth.NewTokenStore("")
	client := api.NewClient(cfg.APIURL, api.Options{
		HTTPClient:      &http.Client{Timeout: cfg.RequestTimeout},
		Tokens:          tokens,
		RateLimit:       cfg.RateLimit,
		BreakerFailures: cfg.BreakerFailures,
		Logger:          log.Named("api"),
	})

	hub := ws.NewHub(log.Named("ws"))
	session := auth.NewSession(client, tokens, log.Named("auth"))
	stores := store.New(client, log.Named("store"), hub)

	return &App{
		Config:  cfg,
		Session: session,
		Stores:  stores,
		Hub:     hub,
		Handler: router.New(cfg, session, stores, hub, log),
		logger:  log,
	}
}

// Run serves the view API until ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.Hub.Run(ctx)

	server := &http.Server{
		Addr:              a.Config.ListenAddr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server",
			zap.String("addr", a.Config.ListenAddr),
			zap.String("api_url", a.Config.APIURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutdown server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown server", zap.Error(err))
		return err
	}

	a.logger.Info("server stopped")
	return nil
}
