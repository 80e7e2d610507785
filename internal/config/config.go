// Package config reads the server settings from the environment.
//
// Values come from real environment variables first; a .env file in the
// working directory (if present) fills in anything that is not already
// set. godotenv never overrides a variable the process already has.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/inkwell/internal/auth"
)

// minSecretLen matches auth.NewTokenService's requirement.
const minSecretLen = 16

type Config struct {
	Port           int
	DatabaseURL    string
	JWTSecret      string
	JWTTTL         time.Duration // 0 = tokens never expire
	PasswordScheme string
	AllowedOrigins []string
	LogLevel       slog.Level
	LogFormat      string // "text" or "json"
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
// The returned error names the first variable that is missing or invalid.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "sqlite://data/inkwell.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		PasswordScheme: strings.ToLower(getEnv("PASSWORD_SCHEME", auth.SchemeBcrypt)),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("config: PORT must be a number between 1 and 65535, got %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	if len(cfg.JWTSecret) < minSecretLen {
		return nil, fmt.Errorf("config: JWT_SECRET must be set and at least %d characters", minSecretLen)
	}

	if raw := os.Getenv("JWT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl < 0 {
			return nil, fmt.Errorf("config: JWT_TTL must be a non-negative duration such as 24h, got %q", raw)
		}
		cfg.JWTTTL = ttl
	}

	switch cfg.PasswordScheme {
	case auth.SchemeBcrypt, auth.SchemeSHA256:
	default:
		return nil, fmt.Errorf("config: PASSWORD_SCHEME must be %q or %q, got %q",
			auth.SchemeBcrypt, auth.SchemeSHA256, cfg.PasswordScheme)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if len(cfg.AllowedOrigins) == 0 {
		return nil, errors.New("config: CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	return cfg, nil
}

// NewLogger builds the process logger described by LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
