// Package auth provides the credential primitives of the blog API:
// password hashing, bearer-token issuing/verification and the middleware
// that gates the blog routes.
//
// TOKEN FORMAT:
// Tokens are HS256 JWTs whose payload carries the user id under "id":
//
//	{"id":"cv37rs3pp9olc6atsptg","iat":1729300000}
//
// By default no "exp" claim is set, so a token stays valid until the
// secret is rotated. A TTL can be configured to bound token lifetime.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned (wrapped) by Verify for every rejected token:
// malformed, unsigned, signed with another secret, expired, or missing the id.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenService issues and verifies signed identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. ttl <= 0 issues tokens without
// an expiry. The secret should be at least 32 bytes of random data in
// production, e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. UserID is serialized as "id"; the embedded
// RegisteredClaims only contribute iat (and exp when a TTL is set).
type claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding {id: userID} using the service TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithTTL(userID, s.ttl)
}

// IssueWithTTL signs a token with an explicit lifetime. ttl == 0 omits
// the exp claim; a negative ttl yields an already-expired token, which
// tests use to exercise expiry handling.
func (s *TokenService) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: cannot issue token for empty user id")
	}

	now := time.Now()
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl != 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify validates the signature (and exp, when present) of tokenStr and
// returns the user id it carries. Any failure is reported as an error
// wrapping ErrInvalidToken; Verify never panics on hostile input.
//
// jwt.WithValidMethods pins HS256 so "alg":"none" or an RS256 header
// cannot be used to bypass the HMAC check.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}
	if c.UserID == "" {
		return "", fmt.Errorf("%w: token has no id", ErrInvalidToken)
	}

	return c.UserID, nil
}
