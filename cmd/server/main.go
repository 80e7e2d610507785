// Package main is the entry point for the inkwell blog API.
//
// main stays minimal:
//  1. read configuration
//  2. create dependencies (logger, database, token service, hasher)
//  3. start the server
//
// All actual logic lives in the internal/ packages.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/config"
	"github.com/sakif/inkwell/internal/repository/sqlstore"
	"github.com/sakif/inkwell/internal/server"
)

func main() {
	// === 1. CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. LOGGING ===
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// === 3. DATABASE ===
	// Open also applies any pending migrations.
	db, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. AUTH ===
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		db.Close()
		logger.Error("failed to create token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	passwords, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		db.Close()
		logger.Error("failed to create password hasher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.PasswordScheme == auth.SchemeSHA256 {
		logger.Warn("PASSWORD_SCHEME=sha256 stores unsalted digests; use bcrypt for new deployments")
	}

	// === 5. SERVE ===
	srv := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, db, tokens, passwords, logger)

	// Start blocks until SIGINT/SIGTERM and closes the database on the way out.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
