package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/dashboard/internal/auth"
	"github.com/kiwari-pos/dashboard/internal/config"
	"github.com/kiwari-pos/dashboard/internal/handler"
	mw "github.com/kiwari-pos/dashboard/internal/middleware"
	"github.com/kiwari-pos/dashboard/internal/store"
	"github.com/kiwari-pos/dashboard/internal/ws"
	"go.uber.org/zap"
)

// New creates a Chi router with all dashboard view routes wired up.
// Everything except health and auth requires a live backend session.
func New(cfg *config.Config, session *auth.Session, stores *store.Stores, hub *ws.Hub, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.Logger(logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(session, logger)
	authHandler.RegisterRoutes(r)

	// Session-guarded routes
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(session))

		r.Get("/auth/me", authHandler.Me)
		r.Get("/ws", ws.Handler(hub, cfg.AllowedOrigins))

		orderHandler := handler.NewOrderHandler(stores.Orders, logger)
		r.Route("/orders", orderHandler.RegisterRoutes)

		r.Route("/meja", handler.NewCollectionHandler[store.Meja, store.MejaInput](stores.Meja, nil, logger).RegisterRoutes)
		r.Route("/menu", handler.NewCollectionHandler[store.Menu, store.MenuInput](stores.Menu, handler.PresentMenu, logger).RegisterRoutes)
		r.Route("/kategori", handler.NewCollectionHandler[store.Kategori, store.KategoriInput](stores.Kategori, nil, logger).RegisterRoutes)
		r.Route("/staff", handler.NewCollectionHandler[store.Staff, store.StaffInput](stores.Staff, nil, logger).RegisterRoutes)
		r.Route("/users", handler.NewCollectionHandler[store.User, store.UserInput](stores.Users, nil, logger).RegisterRoutes)
		r.Route("/payments", handler.NewCollectionHandler[store.Payment, store.PaymentInput](stores.Payments, handler.PresentPayment, logger).RegisterRoutes)

		dashboardHandler := handler.NewDashboardHandler(stores.Dashboard, logger)
		r.Get("/dashboard", dashboardHandler.Summary)
	})

	logger.Info("router initialized")
	return r
}
