package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/inkwell/internal/validation"
)

// Authenticator is the slice of service.AuthService the user routes need.
type Authenticator interface {
	Signup(ctx context.Context, email, password, name string) (string, error)
	Signin(ctx context.Context, email, password string) (string, error)
}

// TokenResponse is returned by signup and signin.
type TokenResponse struct {
	JWT string `json:"jwt"`
}

// UserHandler serves /api/v1/user.
type UserHandler struct {
	auth     Authenticator
	validate *validation.Validator
	logger   *slog.Logger
}

func NewUserHandler(auth Authenticator, validate *validation.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, validate: validate, logger: logger}
}

// HandleSignup registers an account. Surrounding whitespace in the email
// is dropped before validation.
//
// HTTP: POST /api/v1/user/signup
// REQUEST BODY: {"email": "...", "password": "...", "name": "..."}
// RESPONSE: 200 {"jwt": "..."}
func (h *UserHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in validation.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := h.validate.Struct(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.auth.Signup(r.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{JWT: token})
}

// HandleSignin exchanges credentials for a token.
//
// HTTP: POST /api/v1/user/signin
// REQUEST BODY: {"email": "...", "password": "..."}
// RESPONSE: 200 {"jwt": "..."}, or 403 when the account or password is wrong
func (h *UserHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var in validation.SigninInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := h.validate.Struct(in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.auth.Signin(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{JWT: token})
}
