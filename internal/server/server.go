// Package server wires the router, middleware and handlers together and
// runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go creates:   Config → sqlstore.DB, auth.TokenService, auth.PasswordHasher
//	server.New wires:  DB → AuthService/PostService → UserHandler/BlogHandler
//
// All dependencies are assembled here (the composition root); no other
// package constructs its own collaborators.
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
	"github.com/go-chi/cors"

	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/handler"
	"github.com/sakif/inkwell/internal/middleware"
	"github.com/sakif/inkwell/internal/repository/sqlstore"
	"github.com/sakif/inkwell/internal/service"
	"github.com/sakif/inkwell/internal/validation"
)

type Config struct {
	Port           int
	AllowedOrigins []string
}

// Server owns the database handle and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqlstore.DB
}

// New builds the service and handler graph on top of db.
func New(
	cfg Config,
	db *sqlstore.DB,
	tokens *auth.TokenService,
	passwords auth.PasswordHasher,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens, passwords)
	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /healthz                 → store ping
//	POST /api/v1/user/signup      → create account, returns token
//	POST /api/v1/user/signin      → returns token
//	POST /api/v1/blog             → create post            [bearer]
//	PUT  /api/v1/blog/{pId}       → update own post        [bearer]
//	GET  /api/v1/blog/bulk/posts  → list all posts         [bearer]
//	GET  /api/v1/blog/{pId}       → one post or null
//
// MIDDLEWARE ORDER: RequestID, RealIP, Logger, Recoverer run on every
// request; CORS runs on /api only; RequireBearer on the gated blog routes.
// Logger sits outside Recoverer so recovered panics are logged as 500s.
func (s *Server) setupRoutes(tokens *auth.TokenService, passwords auth.PasswordHasher) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	validate := validation.New()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	postService := service.NewPostService(s.db, s.db, s.logger)

	userHandler := handler.NewUserHandler(authService, validate, s.logger)
	blogHandler := handler.NewBlogHandler(postService, validate, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	requireAuth := auth.RequireBearer(tokens, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/user", func(r chi.Router) {
				r.Post("/signup", userHandler.HandleSignup)
				r.Post("/signin", userHandler.HandleSignin)
			})

			r.Route("/blog", func(r chi.Router) {
				r.Get("/{pId}", blogHandler.HandleGet)

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Post("/", blogHandler.HandleCreate)
					r.Put("/{pId}", blogHandler.HandleUpdate)
					r.Get("/bulk/posts", blogHandler.HandleList)
				})
			})
		})
	})
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting new connections
//  2. wait up to 30s for in-flight requests
//  3. close the database pool
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", string(s.db.Dialect())),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
