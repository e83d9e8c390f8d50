package repository

import (
	"context"
	"errors"

	"marketpin/internal/domain/entity"
)

// ErrUserNotFound is returned when a user profile is not in the local cache.
var ErrUserNotFound = errors.New("user not found in cache")

// UserRepository defines the local cache operations for the signed-in
// account's profile.
type UserRepository interface {
	// Save inserts the user or replaces the cached profile with the same ID.
	Save(ctx context.Context, user *entity.User) error

	// FindByID retrieves a cached profile, or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail retrieves a cached profile by email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
