// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/dinnerparty/internal/models"
)

// Sentinel errors returned (optionally wrapped) by Store implementations.
// Services translate them into domain errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// UserStore persists user accounts. It is the user directory.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrConflict if the email or
	// username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail returns ErrNotFound if the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByIdentifier looks a user up by email or username.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// AdjustCurrency adds delta to the user's balance and returns the updated user.
	AdjustCurrency(ctx context.Context, userID string, delta float64) (*models.User, error)
}

// GroupStore persists groups. Every method that changes membership writes
// the group and the affected users' group pointers in one transaction.
type GroupStore interface {
	// CreateGroup inserts the group and points its members at it.
	// The group.ID and CreatedAt fields are populated by the store.
	// Returns ErrConflict if a member already belongs to a group.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMember adds userID to an active group.
	// Returns ErrInvalidState if the group is not active and ErrConflict if
	// the user already belongs to a group.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember removes userID from the group and clears its pointer.
	// When the group ends up empty it is deleted and deleted is true.
	RemoveGroupMember(ctx context.Context, groupID, userID string) (deleted bool, err error)

	// DisbandGroup marks the group disbanded and clears the pointer of every
	// member. It returns the evicted member IDs.
	DisbandGroup(ctx context.Context, groupID string) ([]string, error)
}

// Store combines every storage concern the server needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore

	// Close releases any resources held by the store.
	Close() error
}
