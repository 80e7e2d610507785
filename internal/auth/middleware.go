package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// contextKey is unexported so no other package can read or shadow the
// values this package stores in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// forbiddenBody is the JSON written when a request fails authentication.
// It has the same shape as the handler package's error responses.
type forbiddenBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RequireBearer gates a route group behind a valid bearer token.
//
// It reads "Authorization: Bearer <token>", verifies the token and stores
// the user id in the request context. A missing header is treated as an
// empty token and fails verification like any other bad token. Every
// failure short-circuits with 403 and a JSON body; the wrapped handler is
// never called, so it may assume UserIDFromContext succeeds.
func RequireBearer(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := tokens.Verify(bearerToken(r.Header.Get("Authorization")))
			if err != nil || userID == "" {
				logger.Debug("rejected bearer token",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(forbiddenBody{Error: "forbidden", Message: "not authorized"})
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user's id.
// Returns ("", false) when the request did not pass RequireBearer.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively; anything else yields "".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
