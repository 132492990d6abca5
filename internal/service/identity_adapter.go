package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/notify"
	"github.com/servankarakurt/gorev-api/internal/store"
)

// NewIdentityAdapter creates an adapter that allows a store.UserStore to
// be used where the dispatcher expects a notify.IdentityProvider.
func NewIdentityAdapter(users store.UserStore) notify.IdentityProvider {
	return &identityAdapter{users: users}
}

// identityAdapter adapts a store.UserStore to the notify.IdentityProvider interface
type identityAdapter struct {
	users store.UserStore
}

// ResolveRecipient implements notify.IdentityProvider.ResolveRecipient
func (a *identityAdapter) ResolveRecipient(ctx context.Context, userID uuid.UUID) (notify.Recipient, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return notify.Recipient{}, err
	}

	return notify.Recipient{
		Email: user.Email,
		Name:  user.NotifyName(),
	}, nil
}
