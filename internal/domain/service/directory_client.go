// Package service defines the interfaces for external collaborators consumed
// by the sync core: the remote directory, connectivity, sessions, photo
// storage, event publishing and share codes.
package service

import (
	"context"

	"marketpin/internal/domain/entity"
)

// DirectoryClient is the remote authority for market, submission and
// notification records. Snapshots are whole-collection maps keyed by record
// ID, matching the document-store layout. All methods classify failures as
// network or data-shape application errors; none panic.
type DirectoryClient interface {
	// FetchAllMarkets returns the full remote market snapshot. All statuses
	// are included; reconciliation needs Rejected markets to clean the cache.
	FetchAllMarkets(ctx context.Context) (map[string]*entity.Market, error)

	// FetchAllSubmissions returns the full remote submission snapshot.
	FetchAllSubmissions(ctx context.Context) (map[string]*entity.Submission, error)

	// FetchNotifications returns the remote notifications addressed to the user.
	FetchNotifications(ctx context.Context, userID string) (map[string]*entity.Notification, error)

	// FetchBroadcastNotifications returns the remote broadcast stream.
	FetchBroadcastNotifications(ctx context.Context) (map[string]*entity.Notification, error)

	// PutMarket writes a market record, keyed by its ID.
	PutMarket(ctx context.Context, market *entity.Market) error

	// PutSubmission writes a submission record. The remote store keys delete
	// requests by market ID, so a second report on the same market overwrites
	// the first.
	PutSubmission(ctx context.Context, submission *entity.Submission) error
}
