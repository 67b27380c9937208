// Package server wires the dependency graph and owns the HTTP server
// lifecycle. It is the composition root: main.go only builds a Config and
// calls New/Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/handler"
	"github.com/tahmid/blog-engine/internal/middleware"
	sqliteRepo "github.com/tahmid/blog-engine/internal/repository/sqlite"
	"github.com/tahmid/blog-engine/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port            int
	DBPath          string
	SessionSecret   string
	SessionLifetime time.Duration
	// AdminUserID is the single identity allowed to author, edit, and
	// delete posts. Conventionally 1, the first registered account.
	AdminUserID int64
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// DB → repositories → services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// ServeHTTP makes the server usable directly with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the database. Start does this itself; Close exists for
// callers that never run Start, such as tests.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SessionSecret, s.config.SessionLifetime)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	adminPolicy := auth.AdminPolicy{AdminID: s.config.AdminUserID}
	passwords := auth.NewPasswordService()

	authSvc := service.NewAuthService(s.db.Users(), passwords, s.logger)
	blogSvc := service.NewBlogService(s.db.Posts(), s.db.Comments(), adminPolicy, s.logger)

	render, err := handler.NewRenderer(authSvc, adminPolicy, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	authHandler := handler.NewAuthHandler(render, authSvc, tokens, s.logger)
	blogHandler := handler.NewBlogHandler(render, blogSvc, s.logger)
	pageHandler := handler.NewPageHandler(render)

	// Public routes: the session is decoded when present so templates can
	// show the logged-in state, but nothing is required.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.WithUser(tokens))

		r.Get("/", blogHandler.HandleIndex)
		r.Get("/about", pageHandler.HandleAbout)
		r.Get("/contact", pageHandler.HandleContact)
		r.Get("/post/{id}", blogHandler.HandleShowPost)

		r.Get("/register", authHandler.HandleRegisterForm)
		r.Post("/register", authHandler.HandleRegister)
		r.Get("/login", authHandler.HandleLoginForm)
		r.Post("/login", authHandler.HandleLogin)
	})

	// Authenticated routes: anonymous callers are redirected to /login.
	// Admin-only operations are additionally enforced in the blog service,
	// so a forbidden call performs no side effect.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(tokens))

		r.Get("/logout", authHandler.HandleLogout)
		r.Post("/post/{id}", blogHandler.HandleAddComment)
		r.Get("/new-post", blogHandler.HandleNewPostForm)
		r.Post("/new-post", blogHandler.HandleCreatePost)
		r.Get("/edit-post/{id}", blogHandler.HandleEditPostForm)
		r.Post("/edit-post/{id}", blogHandler.HandleEditPost)
		r.Get("/delete/{id}", blogHandler.HandleDeletePost)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
