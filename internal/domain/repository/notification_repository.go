package repository

import (
	"context"
	"errors"

	"marketpin/internal/domain/entity"
)

// ErrNotificationNotFound is returned when a notification is not in the local cache.
var ErrNotificationNotFound = errors.New("notification not found in cache")

// NotificationRepository defines the local cache operations for notification
// records. Rows are never deleted; the read flag is the only mutable field.
type NotificationRepository interface {
	// Insert persists a new notification. Inserting an ID that already exists
	// is a caller bug: merge filters candidates by ID first, keeping
	// insertion at-most-once.
	Insert(ctx context.Context, notification *entity.Notification) error

	// ListByUser returns every cached notification for the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)

	// ListUnreadByUser returns the user's unread notifications, newest first.
	ListUnreadByUser(ctx context.Context, userID string) ([]*entity.Notification, error)

	// MarkRead flips the read flag to true, or returns ErrNotificationNotFound.
	MarkRead(ctx context.Context, id string) error

	// HasUnread reports whether any unread notification exists for the user.
	HasUnread(ctx context.Context, userID string) (bool, error)
}
