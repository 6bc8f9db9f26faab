package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	// Payments and orders identify members by email.
	Email string

	// Username is the user's public handle (unique).
	// Login accepts either the email or the username.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Currency is the user's balance of loyalty points.
	Currency float64

	// GroupID is the group the user currently belongs to, or "" when none.
	// A user belongs to at most one group at a time.
	GroupID string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the account.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// InGroup reports whether the user currently belongs to a group.
func (u *User) InGroup() bool {
	return u.GroupID != ""
}
