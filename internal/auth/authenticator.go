package auth

import (
	"context"

	"github.com/mmynk/dinnerparty/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given email, username and credential.
	// Returns ErrAccountExists if the email or username is already taken.
	Register(ctx context.Context, email, username, credential string) (*models.User, error)

	// Authenticate verifies the credential of the user identified by email or
	// username and returns the user if successful.
	Authenticate(ctx context.Context, identifier, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
