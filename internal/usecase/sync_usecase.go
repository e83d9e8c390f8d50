// Package usecase defines the application-facing interfaces of the sync core.
package usecase

import (
	"context"
	"time"
)

// SyncReport summarizes one reconciliation pass over the local cache.
type SyncReport struct {
	// Synced is false when the pass was skipped because no network path to
	// the directory existed. A skipped pass is not an error.
	Synced bool `json:"synced"`

	MarketsUpserted   int `json:"markets_upserted"`   // Approved markets written to the cache.
	MarketsDeleted    int `json:"markets_deleted"`    // Non-Approved markets removed from the cache.
	OrphansRemoved    int `json:"orphans_removed"`    // Cached markets absent from the remote snapshot.
	SubmissionsStored int `json:"submissions_stored"` // Derived submission rows regenerated for the user.

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// SyncUsecase drives reconciliation of the local cache against the remote
// directory.
type SyncUsecase interface {
	// Reconcile runs one pass for the given user: orphan cleanup, market
	// upsert/delete by review status, then regeneration of the user's
	// derived submission rows. Idempotent; concurrent calls for the same
	// user coalesce into a single pass. Offline returns a skipped report,
	// not an error. A mid-pass failure aborts the remaining steps and leaves
	// the cache valid but stale.
	Reconcile(ctx context.Context, userID string) (*SyncReport, error)
}
