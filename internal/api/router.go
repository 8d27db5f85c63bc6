package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/planner-be/internal/api/handlers"
	"github.com/isdelr/planner-be/internal/api/middleware"
	"github.com/isdelr/planner-be/internal/auth"
	"github.com/isdelr/planner-be/internal/models"
	"github.com/isdelr/planner-be/internal/services"
	"github.com/isdelr/planner-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Services bundles the stores the router exposes.
type Services struct {
	Accounts  services.AccountServiceProvider
	Memos     services.ResourceStore[models.Memo]
	Tasks     services.ResourceStore[models.Task]
	Documents services.ResourceStore[models.Document]
	Events    services.ResourceStore[models.Event]
	Todos     services.TodoServiceProvider
}

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	DB             *sql.DB
	Hub            *websocket.Hub
	Issuer         *auth.Issuer
	Services       Services
	AllowedOrigins []string
	// AuthRateLimit applies to /register and /login, e.g. "20-M". Empty disables it.
	AuthRateLimit string
	// TrustProxy enables chi's RealIP. Set it only behind a proxy that
	// overwrites the forwarding headers.
	TrustProxy bool
	Log        zerolog.Logger
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg RouterConfig) (*chi.Mux, error) {
	authLimit, err := middleware.NewIPRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimid.RequestID)
	if cfg.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(middleware.AccessLog(cfg.Log))
	r.Use(chimid.Recoverer)
	r.Use(middleware.Prometheus)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg.Services.Accounts, cfg.Issuer)
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	wsHandler := handlers.NewWebSocketHandler(cfg.Hub, cfg.AllowedOrigins)
	todoHandler := handlers.NewTodoHandler(cfg.Services.Todos)

	r.Get("/healthz", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Browsers cannot set headers on a websocket upgrade.
	r.With(auth.Middleware(cfg.Issuer, auth.QueryToken)).Get("/ws", wsHandler.Serve)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Issuer, auth.BearerToken))

		r.Get("/me", authHandler.GetMe)
		r.Put("/me/password", authHandler.ChangePassword)

		r.Route("/memos", handlers.NewResourceHandler("memos", cfg.Services.Memos).Routes)
		r.Route("/tasks", handlers.NewResourceHandler("tasks", cfg.Services.Tasks).Routes)
		r.Route("/documents", handlers.NewResourceHandler("documents", cfg.Services.Documents).Routes)
		r.Route("/events", handlers.NewResourceHandler("events", cfg.Services.Events).Routes)
		r.Route("/todos", todoHandler.Routes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found","code":"not_found"}`))
	})

	return r, nil
}
