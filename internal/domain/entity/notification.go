package entity

import (
	"time"
)

// NotificationCategory classifies a notification message.
type NotificationCategory string

const (
	NotificationApproval  NotificationCategory = "Approval"
	NotificationRejection NotificationCategory = "Rejection"
	NotificationGeneral   NotificationCategory = "General"
	NotificationBroadcast NotificationCategory = "Broadcast"
)

// Notification is a message addressed to a user, or broadcast to all users.
// Broadcasts arrive without a target user and are stamped with the viewing
// user's ID on local ingestion so they become addressable in the cache.
// Insertion is at-most-once per ID; the read flag is local-only state and is
// never overwritten by a later sync.
type Notification struct {
	ID              string               `json:"id"`     // Globally unique ID assigned by the remote authority.
	UserID          string               `json:"userId"` // Target user; empty on broadcasts until stamped locally.
	Title           string               `json:"title"`
	Body            string               `json:"body"`
	Category        NotificationCategory `json:"type"`
	RelatedMarketID *string              `json:"relatedMarketId,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	IsRead          bool                 `json:"isRead"` // Local-only; flips true on explicit acknowledgment.
}
