package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/dinnerparty/internal/models"
	"github.com/mmynk/dinnerparty/internal/storage"
)

type memoryUsers struct {
	users []*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return storage.ErrConflict
		}
	}
	m.users = append(m.users, user)
	return nil
}

func (m *memoryUsers) GetUserByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == identifier || u.Username == identifier {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(&memoryUsers{})
	a.cost = bcrypt.MinCost

	user, err := a.Register(ctx, "alice@example.com", "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatal("password stored in clear text")
	}

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{"by email", "alice@example.com", "correct-horse", nil},
		{"by username", "alice", "correct-horse", nil},
		{"wrong password", "alice", "battery-staple", ErrInvalidCredentials},
		{"unknown user", "bob", "correct-horse", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.identifier, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && got.ID != user.ID {
				t.Errorf("ID mismatch: got %s, want %s", got.ID, user.ID)
			}
		})
	}

	t.Run("duplicate username", func(t *testing.T) {
		_, err := a.Register(ctx, "other@example.com", "alice", "correct-horse")
		if !errors.Is(err, ErrAccountExists) {
			t.Errorf("expected ErrAccountExists, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := a.Register(ctx, "bob@example.com", "bob", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})
}
