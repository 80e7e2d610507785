package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported values of the PASSWORD_SCHEME setting.
const (
	SchemeBcrypt = "bcrypt"
	SchemeSHA256 = "sha256"
)

// ErrPasswordMismatch is returned (wrapped) by Verify when the plaintext
// does not produce the stored hash.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordHasher turns a plaintext password into its stored form and
// checks a plaintext against a stored value.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}

// NewPasswordHasher returns the hasher for scheme ("bcrypt" or "sha256").
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case SchemeBcrypt, "":
		return NewBcryptHasher(), nil
	case SchemeSHA256:
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("auth: unknown password scheme %q", scheme)
	}
}

// =========================================================================
// SHA-256 (legacy)
// =========================================================================

// SHA256Hasher stores the hex-encoded SHA-256 digest of the password.
//
// It is unsalted and single-round: the same password always yields the
// same 64-char digest. Only select it to stay compatible with accounts
// created under that scheme; new deployments should use bcrypt.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(hash, plaintext string) error {
	want, _ := h.Hash(plaintext)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(hash))) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// =========================================================================
// bcrypt
// =========================================================================

// defaultCost is the bcrypt work factor; ~250ms per hash on current hardware.
const defaultCost = 12

// BcryptHasher salts every hash, so two hashes of one password differ.
// The output ($2a$12$<salt><hash>) embeds salt and cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the default cost (12).
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: defaultCost}
}

// NewBcryptHasherForTest uses a caller-chosen cost. Tests in other
// packages pass bcrypt.MinCost (4); never use it in production.
func NewBcryptHasherForTest(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash rejects passwords over 72 bytes instead of letting bcrypt truncate.
func (b *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

func (b *BcryptHasher) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
