package service

import (
	"context"

	"marketpin/internal/domain/entity"
)

// SessionService resolves the signed-in account from the identity provider's
// ID token. Token acquisition and storage belong to the UI/auth layer; this
// service only reads what is already on the device.
type SessionService interface {
	// CurrentUser returns the signed-in user, refreshing the cached profile,
	// or a not-logged-in / session-expired application error.
	CurrentUser(ctx context.Context) (*entity.User, error)

	// ParseIDToken extracts the user profile carried in an ID token without
	// contacting the identity provider. Expired tokens fail.
	ParseIDToken(token string) (*entity.User, error)
}
