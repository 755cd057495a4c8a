// Package main is the entry point for the Daily Stretch server.
//
// The main package is kept minimal — its job is to:
// 1. Read configuration (env vars, with a .env file as fallback)
// 2. Create dependencies (logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/dailystretch/internal/server"
)

func main() {
	// Load .env if present so os.Getenv picks values from it. Best-effort:
	// with no .env we continue on the real environment.
	_ = godotenv.Load()

	// slog.NewTextHandler outputs human-readable logs to the terminal.
	// Levels from least to most severe: Debug → Info → Warn → Error.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// === PORT ===
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// === FILE PATHS ===
	// When running with `go run` the working directory is the project root,
	// so the relative defaults work directly.
	staticDir, _ := filepath.Abs(envOr("STATIC_DIR", "web/static"))
	mediaRoot, _ := filepath.Abs(envOr("MEDIA_ROOT", "data/media"))

	// DEFAULT_PHOTO, when set, is copied into every new account's profile at
	// registration. Empty means new accounts start without a photo.
	defaultPhoto := os.Getenv("DEFAULT_PHOTO")

	// === DATABASE ===
	dbPath := envOr("DB_PATH", "data/dailystretch.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === SECRETS ===
	// SESSION_SECRET signs session tokens and must be a long random string:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	// ADMIN_SIGNUP_CODE is optional; unset disables admin self-registration.
	// Neither value is ever logged.
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET not set — refusing to start without one")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:               port,
		StaticDir:          staticDir,
		DBPath:             dbPath,
		MediaRoot:          mediaRoot,
		DefaultPhotoPath:   defaultPhoto,
		SessionSecret:      sessionSecret,
		AdminSignupCode:    os.Getenv("ADMIN_SIGNUP_CODE"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// envOr returns the environment variable's value, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
