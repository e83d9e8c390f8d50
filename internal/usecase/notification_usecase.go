package usecase

import (
	"context"

	"marketpin/internal/domain/entity"
)

// NotificationUsecase defines the interface for notification management use cases
type NotificationUsecase interface {
	// Merge pulls the user's personal and broadcast notifications from the
	// directory, inserts the ones not yet cached, and returns the unread
	// list, newest first. Broadcasts are stamped with the user's ID before
	// insertion. A cached notification is never overwritten, so locally
	// flipped read flags survive every merge. Offline returns the cached
	// unread list.
	Merge(ctx context.Context, userID string) ([]*entity.Notification, error)

	// Notifications returns every cached notification for the user, newest
	// first.
	Notifications(ctx context.Context, userID string) ([]*entity.Notification, error)

	// MarkRead flips the read flag on one notification. Reading a list never
	// marks anything; acknowledgment is always explicit.
	MarkRead(ctx context.Context, id string) error

	// HasUnread drives the bell indicator: true when an unread cached
	// notification exists, or, when online, when the broadcast stream
	// carries an ID not yet in the cache. Offline only the cache is
	// consulted.
	HasUnread(ctx context.Context, userID string) (bool, error)
}
