// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — it connects repositories, services,
// handlers, and middleware. It is the composition root: every dependency in
// the app is assembled here (New/setupRoutes) rather than scattered across
// the codebase.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — load config, start the server)
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

	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/handler"
	"github.com/sakif/dailystretch/internal/media"
	"github.com/sakif/dailystretch/internal/middleware"
	"github.com/sakif/dailystretch/internal/mirror"
	sqliteRepo "github.com/sakif/dailystretch/internal/repository/sqlite"
	"github.com/sakif/dailystretch/internal/service"
)

// Config holds server configuration, loaded from the environment in main.go.
type Config struct {
	Port      int
	StaticDir string
	DBPath    string

	// MediaRoot is where uploaded profile photos live; it is served under
	// /media/. DefaultPhotoPath, when set, is copied into each new account's
	// profile at registration.
	MediaRoot        string
	DefaultPhotoPath string

	// SessionSecret signs session tokens. AdminSignupCode, when non-empty,
	// lets a registration elevate itself to superuser; keep it out of logs.
	SessionSecret   string
	AdminSignupCode string

	// Supabase mirror. Both empty disables mirroring entirely.
	SupabaseURL        string
	SupabaseServiceKey string
}

// Server owns the router and the process-lifetime resources (database,
// media store). Close order on shutdown: HTTP first, then the database.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the entire dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, the router gets handlers. The handler
// never touches the database; the service never touches HTTP.
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

// setupRoutes configures middleware, wires the services, and registers
// every route.
//
// ROUTE STRUCTURE:
//
//	POST /register                          → create account (public)
//	POST /login                             → establish session (public)
//	POST /logout                            → clear session (public)
//	GET  /static/*, /media/*                → files
//
//	-- RequireAuth --
//	GET  /api/me                            → current user
//	GET  /api/routines                      → routine catalog
//	GET  /main/dashboard                    → timer settings + favorite count
//	GET  /main/profile                      → profile data
//	POST /main/profile                      → partial profile edit
//	POST /main/profile/upload-photo         → profile photo upload
//	GET  /main/settings                     → settings
//	POST /main/settings                     → partial settings edit
//	POST /favorite-toggle                   → flip favorite state
//	GET  /favorite-list                     → favorited routine ids
//
//	-- RequireAuth + RequireSuperuser --
//	POST /main/add-routine                  → create routine
//	POST /main/admin/routine/update/{id}    → update routine
//	POST /main/admin/routine/delete/{id}    → delete routine
//	POST /main/admin/user/toggle            → flip a user's admin flags
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP run first so the logger
// sees them; Recoverer turns panics into 500s instead of killing the
// process.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === INFRASTRUCTURE ===
	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	store, err := media.NewStore(s.config.MediaRoot)
	if err != nil {
		return fmt.Errorf("creating media store: %w", err)
	}

	mirrorClient := mirror.NewClient(s.config.SupabaseURL, s.config.SupabaseServiceKey)
	if !mirrorClient.Configured() {
		s.logger.Info("profile mirror not configured, sync disabled")
	}

	// === SERVICES ===
	provisioner := service.NewProvisioner(s.db.Profiles(), s.db.Settings(), store, s.config.DefaultPhotoPath, s.logger)
	accounts := service.NewAccountService(s.db.Users(), provisioner, tokens, passwords, s.config.AdminSignupCode, s.logger)
	profiles := service.NewProfileService(s.db.Users(), s.db.Profiles(), store, mirrorClient, s.logger)
	settings := service.NewSettingsService(s.db.Settings(), s.db.Favorites(), s.logger)
	routines := service.NewRoutineService(s.db.Routines(), s.db.Favorites(), s.logger)
	admin := service.NewAdminService(s.db.Users(), s.logger)

	// === HANDLERS ===
	accountHandler := handler.NewAccountHandler(accounts, s.logger)
	profileHandler := handler.NewProfileHandler(profiles, accounts, s.logger)
	settingsHandler := handler.NewSettingsHandler(settings, s.logger)
	routineHandler := handler.NewRoutineHandler(routines, s.logger)
	adminHandler := handler.NewAdminHandler(routines, admin, s.logger)

	// === FILES ===
	// StripPrefix removes the URL prefix before the filesystem lookup, so
	// GET /media/profile_pictures/x.png serves {MediaRoot}/profile_pictures/x.png.
	staticServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", staticServer))

	mediaServer := http.FileServer(http.Dir(store.Root()))
	s.router.Handle(media.URLPrefix+"*", http.StripPrefix(media.URLPrefix, mediaServer))

	// === PUBLIC ROUTES ===
	s.router.Post("/register", accountHandler.HandleRegister)
	s.router.Post("/login", accountHandler.HandleLogin)
	s.router.Post("/logout", accountHandler.HandleLogout)

	// === AUTHENTICATED ROUTES ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/api/me", accountHandler.HandleMe)
		r.Get("/api/routines", routineHandler.HandleList)

		r.Get("/main/dashboard", settingsHandler.HandleDashboard)
		r.Get("/main/profile", profileHandler.HandleGet)
		r.Post("/main/profile", profileHandler.HandleEdit)
		r.Post("/main/profile/upload-photo", profileHandler.HandleUploadPhoto)
		r.Get("/main/settings", settingsHandler.HandleGet)
		r.Post("/main/settings", settingsHandler.HandleUpdate)

		r.Post("/favorite-toggle", routineHandler.HandleFavoriteToggle)
		r.Get("/favorite-list", routineHandler.HandleFavoriteList)

		// === ADMIN ROUTES ===
		// RequireSuperuser reads the userID RequireAuth stored, so it nests
		// inside the authenticated group.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSuperuser(s.db.Users()))

			r.Post("/main/add-routine", adminHandler.HandleAddRoutine)
			r.Post("/main/admin/routine/update/{id}", adminHandler.HandleUpdateRoutine)
			r.Post("/main/admin/routine/delete/{id}", adminHandler.HandleDeleteRoutine)
			r.Post("/main/admin/user/toggle", adminHandler.HandleToggleAdmin)
		})
	})

	return nil
}

// Router exposes the assembled router for tests that drive the server with
// httptest instead of a real listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests to finish
//  3. Close the database (flushes the WAL, releases the file lock)
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
