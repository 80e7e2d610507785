// Package model defines the data structures shared across the layers.
package model

import "time"

// User is a registered account.
//
// PasswordHash holds whatever the configured PasswordHasher produced
// (bcrypt, or a hex SHA-256 digest for legacy accounts). The `json:"-"`
// tag keeps it out of every API response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
