package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
)

// UserStore defines the interface for user data persistence. It doubles
// as the identity provider for the notification pipeline: resolving an
// owner ID to an address and display name is a GetByID call.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
