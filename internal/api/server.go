// Package api provides the HTTP API server and handlers for the bookstore.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/listenupapp/bookstore-server/internal/config"
	"github.com/listenupapp/bookstore-server/internal/http/response"
	"github.com/listenupapp/bookstore-server/internal/ratelimit"
	"github.com/listenupapp/bookstore-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
	cfg          *config.Config
	loginLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		logger:       logger,
		cfg:          cfg,
		loginLimiter: ratelimit.NewPer(cfg.Auth.LoginRate, cfg.Auth.LoginWindow),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Bookstore API", "1.0.0")
	humaConfig.Info.Description = "Book catalog with per-user likes, bookmarks and ratings"
	// No schema links: bodies carry exactly the documented fields.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Shutdown releases background resources held by the server.
func (s *Server) Shutdown() error {
	s.loginLimiter.Stop()
	return nil
}

// setupMiddleware configures the middleware stack. Order matters: request
// IDs and real IPs must exist before logging, metrics and rate limiting.
// Forwarded headers are only honored behind a trusted proxy.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StripSlashes)
	s.router.Use(middleware.RequestID)
	if s.cfg.Server.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(metricsMiddleware)

	if len(s.cfg.Server.CORSOrigins) > 0 {
		s.router.Use(corsMiddleware(s.cfg.Server.CORSOrigins))
	}
	if s.cfg.Server.RateLimitRequests > 0 {
		s.router.Use(globalRateLimit(s.cfg.Server.RateLimitRequests, s.cfg.Server.RateLimitWindow, s.logger))
	}

	s.router.Use(authMiddleware(s.services.Auth, s.logger))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found.", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, `Method "`+r.Method+`" not allowed.`, s.logger)
	})
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerRelationRoutes()

	s.router.Get("/auth", s.handleAuthPage)
	s.router.Handle("/metrics", promhttp.Handler())
}
