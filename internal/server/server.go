// Package server wires configuration, storage, services and handlers into
// one HTTP server and owns its lifecycle.
//
// Dependencies flow one way:
//
//	config.Config → repository.Store → service.* → handler.* → chi routes
//
// Each layer only receives what it needs: services take repository
// interfaces, handlers take services, and nothing below the handlers
// knows about HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/ringlog/internal/auth"
	"github.com/sakif/ringlog/internal/config"
	"github.com/sakif/ringlog/internal/handler"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/middleware"
	"github.com/sakif/ringlog/internal/repository"
	"github.com/sakif/ringlog/internal/repository/mongodb"
	"github.com/sakif/ringlog/internal/repository/sqlite"
	"github.com/sakif/ringlog/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Server is the HTTP server and everything it owns. The store is closed
// when Start returns.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	store    repository.Store
	registry *prometheus.Registry
	metrics  *metrics.Manager
	now      service.Clock

	providers []auth.Provider
}

// Option customises a Server.
type Option func(*Server)

// WithClock replaces the wall clock used by the services.
func WithClock(now service.Clock) Option {
	return func(s *Server) { s.now = now }
}

// WithProviders replaces the OAuth providers built from the config.
func WithProviders(providers ...auth.Provider) Option {
	return func(s *Server) { s.providers = providers }
}

// OpenStore connects to the backend named by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New builds the router over an already opened store. The server takes
// ownership of the store.
func New(cfg *config.Config, store repository.Store, logger *slog.Logger, opts ...Option) (*Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		registry: reg,
		metrics:  metrics.NewManager(metrics.Namespace, metrics.Subsystem, reg),
	}
	s.providers = s.configuredProviders()
	for _, opt := range opts {
		opt(s)
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func (s *Server) configuredProviders() []auth.Provider {
	var providers []auth.Provider
	if g := s.config.Auth.Google; g.Enabled() {
		providers = append(providers, auth.NewGoogleProvider(g.ClientID, g.ClientSecret, g.CallbackURL))
	}
	if gh := s.config.Auth.GitHub; gh.Enabled() {
		providers = append(providers, auth.NewGitHubProvider(gh.ClientID, gh.ClientSecret, gh.CallbackURL))
	}
	return providers
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers middleware and routes.
//
//	GET    /healthz                          liveness plus a store ping
//	GET    /metrics                          prometheus
//	GET    /auth/{provider}/login            start OAuth
//	GET    /auth/{provider}/callback         finish OAuth, set cookie
//	POST   /auth/dev/login                   password login
//	POST   /auth/logout
//	GET    /api/program                      static catalog
//	*      /api/user, /api/workouts, /api/metrics, /api/progress, /api/exercises
//	                                         session required
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret, s.config.Auth.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	loc := s.config.Location()
	secure := s.config.Server.CookieSecure

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.RequestMetrics(s.metrics))
	s.router.Use(middleware.Recoverer(s.logger, s.metrics))

	authSvc := service.NewAuthService(s.store.Users(), tokens, auth.NewPasswordService(),
		s.config.Auth.DevPasswordHash, s.metrics, s.logger)
	userSvc := service.NewUserService(s.store, s.metrics, s.logger)
	workoutSvc := service.NewWorkoutService(s.store, loc, s.now, s.metrics, s.logger)
	metricsSvc := service.NewBodyMetricsService(s.store.Metrics(), s.now, s.metrics, s.logger)
	progressSvc := service.NewProgressService(s.store, loc, s.now)

	authH := handler.NewAuthHandler(s.providers, authSvc, tokens, secure, "/", s.logger)
	userH := handler.NewUserHandler(userSvc, secure, s.logger)
	workoutH := handler.NewWorkoutHandler(workoutSvc, s.logger)
	metricsH := handler.NewMetricsHandler(metricsSvc, s.logger)
	progressH := handler.NewProgressHandler(progressSvc, s.logger)

	s.router.Get("/healthz", handler.HandleHealth(s.store, s.logger))
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/dev/login", authH.HandleDevLogin)
		r.Post("/logout", authH.HandleLogout)
		r.Get("/{provider}/login", authH.HandleLogin)
		r.Get("/{provider}/callback", authH.HandleCallback)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/program", handler.HandleProgram)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/user", userH.HandleGet)
			r.Put("/user", userH.HandleUpdate)
			r.Delete("/user", userH.HandleDelete)

			r.Get("/workouts", workoutH.HandleList)
			r.Post("/workouts", workoutH.HandleCreate)
			r.Get("/workouts/draft/{slug}", workoutH.HandleDraft)
			r.Get("/workouts/{id}", workoutH.HandleGet)
			r.Put("/workouts/{id}", workoutH.HandleUpdate)
			r.Delete("/workouts/{id}", workoutH.HandleDelete)

			r.Get("/metrics", metricsH.HandleList)
			r.Post("/metrics", metricsH.HandleCreate)
			r.Delete("/metrics/{id}", metricsH.HandleDelete)

			r.Get("/progress", progressH.HandleSummary)
			r.Get("/progress/week", progressH.HandleWeek)
			r.Get("/progress/exercises/{slug}", progressH.HandleExercise)
			r.Get("/exercises/{slug}/variants", progressH.HandleVariants)
		})
	})

	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	s.logger.Debug("routes registered",
		slog.Any("providers", names),
		slog.Bool("devLogin", s.config.Auth.DevPasswordHash != ""),
	)
	return nil
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", s.config.Server.BaseURL),
			slog.String("database", s.config.Database.Driver),
			slog.String("timezone", s.config.Server.Timezone),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
