package repository

import (
	"context"

	"marketpin/internal/domain/entity"
)

// SubmissionRepository defines the local cache operations for submission
// records. New-kind rows are derived state and are purged and regenerated on
// every reconciliation pass.
type SubmissionRepository interface {
	// Upsert inserts the submission or replaces the cached row with the same ID.
	Upsert(ctx context.Context, submission *entity.Submission) error

	// ListAll returns every cached submission.
	ListAll(ctx context.Context) ([]*entity.Submission, error)

	// ListBySubmitter returns cached submissions authored by the given user,
	// newest first.
	ListBySubmitter(ctx context.Context, userID string) ([]*entity.Submission, error)

	// Delete removes the submission with the given ID, if present.
	Delete(ctx context.Context, id string) error

	// DeleteBySubmitterAndKind removes every cached submission of the given
	// kind authored by the given user. Used to clear stale derived rows
	// before a rebuild.
	DeleteBySubmitterAndKind(ctx context.Context, userID string, kind entity.SubmissionKind) error
}
