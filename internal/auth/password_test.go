package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestBcrypt() *BcryptHasher {
	return NewBcryptHasherForTest(bcrypt.MinCost)
}

// =========================================================================
// SCHEME SELECTION
// =========================================================================

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		scheme  string
		want    string
		wantErr bool
	}{
		{scheme: "bcrypt", want: "*auth.BcryptHasher"},
		{scheme: "", want: "*auth.BcryptHasher"},
		{scheme: "SHA256", want: "auth.SHA256Hasher"},
		{scheme: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			h, err := NewPasswordHasher(tt.scheme)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewPasswordHasher(%q) should fail", tt.scheme)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPasswordHasher(%q) error = %v", tt.scheme, err)
			}
			switch h.(type) {
			case *BcryptHasher:
				if tt.want != "*auth.BcryptHasher" {
					t.Errorf("got bcrypt, want %s", tt.want)
				}
			case SHA256Hasher:
				if tt.want != "auth.SHA256Hasher" {
					t.Errorf("got sha256, want %s", tt.want)
				}
			}
		})
	}
}

// =========================================================================
// SHA-256
// =========================================================================

func TestSHA256_Deterministic(t *testing.T) {
	var h SHA256Hasher

	first, _ := h.Hash("same-password")
	second, _ := h.Hash("same-password")

	if first != second {
		t.Errorf("Hash() not deterministic: %q != %q", first, second)
	}
}

func TestSHA256_KnownDigest(t *testing.T) {
	var h SHA256Hasher

	got, _ := h.Hash("password")
	want := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	if got != want {
		t.Errorf("Hash(%q) = %q, want %q", "password", got, want)
	}
}

func TestSHA256_Verify(t *testing.T) {
	var h SHA256Hasher
	hash, _ := h.Hash("correct-horse")

	if err := h.Verify(hash, "correct-horse"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
	if err := h.Verify(strings.ToUpper(hash), "correct-horse"); err != nil {
		t.Errorf("Verify() should accept upper-case hex, error = %v", err)
	}
	if err := h.Verify(hash, "battery-staple"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() wrong password error = %v, want ErrPasswordMismatch", err)
	}
}

// =========================================================================
// bcrypt
// =========================================================================

func TestBcrypt_OutputLooksBcrypt(t *testing.T) {
	hash, err := newTestBcrypt().Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestBcrypt_SamePasswordProducesDifferentHashes(t *testing.T) {
	b := newTestBcrypt()

	hash1, _ := b.Hash("same-password")
	hash2, _ := b.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestBcrypt_RejectsPasswordOver72Bytes(t *testing.T) {
	if _, err := newTestBcrypt().Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("Hash() should return an error for passwords longer than 72 bytes")
	}
}

func TestBcrypt_Verify(t *testing.T) {
	b := newTestBcrypt()
	hash, err := b.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := b.Verify(hash, "correct-horse-battery-staple"); err != nil {
		t.Errorf("Verify() correct password error = %v", err)
	}
	if err := b.Verify(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() wrong password error = %v, want ErrPasswordMismatch", err)
	}
	if err := b.Verify("not-a-bcrypt-hash", "x"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() malformed hash error = %v, want a non-mismatch error", err)
	}
}
