// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → decodes and validates requests, writes responses
//	Service (business layer) → enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services take plain Go values, never *http.Request, and return
// apperror values that the handler layer maps to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/model"
	"github.com/sakif/inkwell/internal/repository"
)

// msgUserNotFound is the single answer for an unknown email and for a
// wrong password, so signin does not reveal which accounts exist.
const msgUserNotFound = "user not found"

// AuthService handles signup and signin.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository → read/write accounts
//   - tokens     *auth.TokenService        → issue JWTs
//   - passwords  auth.PasswordHasher       → hash and verify passwords
//   - logger     *slog.Logger
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords auth.PasswordHasher
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords auth.PasswordHasher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Signup creates an account and returns a token for it.
//
// The email is stored trimmed and lower-cased. A duplicate email comes
// back from the repository as apperror.ErrConflict and is passed through.
// No token is issued unless the user row was written.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (string, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to create user", slog.String("error", err.Error()))
		}
		return "", fmt.Errorf("service/auth: creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user signed up", slog.String("userID", user.ID))

	return token, nil
}

// Signin checks the credentials and returns a fresh token.
// An unknown email and a wrong password both yield apperror.ErrForbidden.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Forbidden(msgUserNotFound)
		}
		s.logger.Error("failed to load user", slog.String("error", err.Error()))
		return "", fmt.Errorf("service/auth: loading user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug("signin password mismatch", slog.String("userID", user.ID))
			return "", apperror.Forbidden(msgUserNotFound)
		}
		// A stored hash the hasher cannot parse, e.g. a SHA-256 digest
		// read by the bcrypt hasher after a scheme change.
		return "", fmt.Errorf("service/auth: verifying password for user %s: %w", user.ID, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
