package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/opencampus/campus/internal/api/v1"
	"github.com/opencampus/campus/internal/api/ws"
	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/config"
	"github.com/opencampus/campus/internal/server/middleware"
	"github.com/opencampus/campus/internal/store/postgres"
	redisstore "github.com/opencampus/campus/internal/store/redis"
	"github.com/opencampus/campus/internal/usage"
)

// Rate limits applied at the edge. The per-IP limiter protects the
// unauthenticated auth surface; the per-school limiter keeps one noisy
// tenant from starving the rest.
const (
	ipRateLimit     = 10.0
	ipRateBurst     = 30
	schoolRateLimit = 100.0
	schoolRateBurst = 200
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	pubsub     *redisstore.PubSub
	wsHub      *ws.Hub
	cfg        *config.Config
	cancel     context.CancelFunc
}

// Deps carries the application services the HTTP layer exposes.
type Deps struct {
	Store    *postgres.Store
	PubSub   *redisstore.PubSub
	Auth     *auth.Service
	OAuth    *auth.GoogleProvider // nil when Google sign-in is not configured
	Loader   v1.DashboardLoader
	QA       v1.QAService
	Usage    *usage.Aggregator
	WebFiles fs.FS // nil disables the embedded SPA
}

// New creates a Server with all routes wired.
// When Deps.WebFiles is provided, the SvelteKit SPA is served on all
// unmatched routes (embedded via go:embed for single-binary distribution).
func New(cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	hub := ws.NewHub(deps.PubSub, deps.Store.Chat())

	limiterCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		router: router,
		store:  deps.Store,
		auth:   deps.Auth,
		pubsub: deps.PubSub,
		wsHub:  hub,
		cfg:    cfg,
		cancel: cancel,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for login, OAuth, and school branding.
	// 2. Authenticated group for everything else, split per view so the
	//    role policy is enforced before any handler runs.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ResolveSchool(deps.Store.Schools()))
			r.Use(middleware.RateLimitByIP(limiterCtx, ipRateLimit, ipRateBurst))

			registerPublicRoutes(r, deps)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret, deps.Auth))
			r.Use(middleware.ResolveSchool(deps.Store.Schools()))
			r.Use(usage.Recorder(deps.Usage))
			r.Use(middleware.RateLimit(limiterCtx, schoolRateLimit, schoolRateBurst))

			registerViewRoutes(r, deps, hub)
		})
	})

	// WebSocket routes.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret, deps.Auth))
		r.Get("/chat/{roomID}", hub.ServeChat)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Serve the embedded SvelteKit SPA on all unmatched routes.
	// This must be the last route registered so API/WS routes take priority.
	if deps.WebFiles != nil {
		router.NotFound(spaFileServer(deps.WebFiles).ServeHTTP)
		log.Info().Msg("embedded dashboard enabled")
	}

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
