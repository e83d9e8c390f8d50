// Package impl contains the concrete implementations of the usecase interfaces.
package impl

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"marketpin/internal/domain/entity"
	"marketpin/internal/domain/repository"
	"marketpin/internal/domain/service"
	"marketpin/internal/usecase"
)

const unknownSubmitterName = "Unknown"

type syncService struct {
	directory      service.DirectoryClient
	connectivity   service.ConnectivityChecker
	marketRepo     repository.MarketRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	logger         *slog.Logger

	// Concurrent Reconcile calls for the same user coalesce into one pass.
	// Interleaved passes would corrupt the derived submission rows.
	group singleflight.Group
}

// NewSyncService creates a new sync service instance
func NewSyncService(
	directory service.DirectoryClient,
	connectivity service.ConnectivityChecker,
	marketRepo repository.MarketRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) usecase.SyncUsecase {
	return &syncService{
		directory:      directory,
		connectivity:   connectivity,
		marketRepo:     marketRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// Reconcile runs one reconciliation pass for the given user.
func (s *syncService) Reconcile(ctx context.Context, userID string) (*usecase.SyncReport, error) {
	if !s.connectivity.Online(ctx) {
		s.logger.Debug("Reconciliation skipped, offline", slog.String("user_id", userID))

		now := time.Now()

		return &usecase.SyncReport{Synced: false, StartedAt: now, FinishedAt: now}, nil
	}

	result, err, _ := s.group.Do(userID, func() (any, error) {
		// A pass that has cleared the user's derived rows must run to
		// completion, so the caller going away cannot abort it mid-rebuild.
		// Remote fetches stay bounded by the directory client's own timeout.
		return s.reconcile(context.WithoutCancel(ctx), userID)
	})
	if err != nil {
		return nil, err
	}

	return result.(*usecase.SyncReport), nil
}

func (s *syncService) reconcile(ctx context.Context, userID string) (*usecase.SyncReport, error) {
	report := &usecase.SyncReport{Synced: true, StartedAt: time.Now()}

	// Remote snapshot comes first so a fetch failure aborts before any local
	// write. A nil snapshot (empty remote node) is a legal state meaning the
	// directory holds no markets at all.
	remoteMarkets, err := s.directory.FetchAllMarkets(ctx)
	if err != nil {
		return nil, err
	}

	// Clear the user's derived rows before the rebuild; their status is
	// re-synthesized from the fresh snapshot below.
	if userID != "" {
		if err := s.submissionRepo.DeleteBySubmitterAndKind(ctx, userID, entity.SubmissionKindNew); err != nil {
			return nil, err
		}
	}

	localMarkets, err := s.marketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Orphan cleanup: a cached ID the remote no longer knows was hard-deleted
	// by an administrator.
	for _, local := range localMarkets {
		if _, exists := remoteMarkets[local.ID]; exists {
			continue
		}

		if err := s.marketRepo.Delete(ctx, local.ID); err != nil {
			return nil, err
		}
		report.OrphansRemoved++

		s.logger.Debug("Orphan market deleted",
			slog.String("market_id", local.ID),
			slog.String("name", local.Name),
		)
	}

	for id, remote := range remoteMarkets {
		if remote == nil {
			continue
		}
		if remote.ID == "" {
			remote.ID = id
		}

		if remote.Status == entity.MarketStatusApproved {
			if err := s.marketRepo.Upsert(ctx, remote); err != nil {
				return nil, err
			}
			report.MarketsUpserted++
		} else {
			// Pending and Rejected never render as pins. The delete re-runs
			// harmlessly when the row is already absent.
			if err := s.marketRepo.Delete(ctx, remote.ID); err != nil {
				return nil, err
			}
			report.MarketsDeleted++
		}

		if userID != "" && remote.SubmittedBy == userID {
			if err := s.submissionRepo.Upsert(ctx, newSubmissionFromMarket(remote)); err != nil {
				return nil, err
			}
			report.SubmissionsStored++
		}
	}

	if userID != "" {
		if err := s.mirrorDeleteRequests(ctx, userID, report); err != nil {
			return nil, err
		}
	}

	report.FinishedAt = time.Now()

	s.logger.Info("Reconciliation complete",
		slog.String("user_id", userID),
		slog.Int("markets_upserted", report.MarketsUpserted),
		slog.Int("markets_deleted", report.MarketsDeleted),
		slog.Int("orphans_removed", report.OrphansRemoved),
		slog.Int("submissions_stored", report.SubmissionsStored),
	)

	return report, nil
}

// mirrorDeleteRequests copies the user's remote delete requests into the
// cache under the stable delete-prefixed ID, so repeated passes converge on
// one row per market.
func (s *syncService) mirrorDeleteRequests(ctx context.Context, userID string, report *usecase.SyncReport) error {
	remoteSubmissions, err := s.directory.FetchAllSubmissions(ctx)
	if err != nil {
		return err
	}

	fallbackName := s.submitterDisplayName(ctx, userID)

	for _, remote := range remoteSubmissions {
		if remote == nil || remote.SubmittedBy != userID || remote.Kind != entity.SubmissionKindDelete {
			continue
		}

		mirrored := *remote
		mirrored.ID = entity.DeleteSubmissionID(remote.MarketID)
		mirrored.MarketName = "Delete: " + remote.MarketName
		if mirrored.SubmittedByName == "" {
			mirrored.SubmittedByName = fallbackName
		}

		if err := s.submissionRepo.Upsert(ctx, &mirrored); err != nil {
			return err
		}
		report.SubmissionsStored++
	}

	return nil
}

func (s *syncService) submitterDisplayName(ctx context.Context, userID string) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.DisplayName == "" {
		return unknownSubmitterName
	}

	return user.DisplayName
}

func newSubmissionFromMarket(market *entity.Market) *entity.Submission {
	return &entity.Submission{
		ID:              market.ID,
		MarketID:        market.ID,
		MarketName:      market.Name,
		SubmittedBy:     market.SubmittedBy,
		SubmittedByName: market.SubmittedByName,
		Status:          market.Status,
		Kind:            entity.SubmissionKindNew,
		SubmittedAt:     market.SubmittedAt,
	}
}
