package impl

import (
	"context"
	"log/slog"

	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/repository"
	"marketpin/internal/domain/service"
	"marketpin/internal/errors"
	"marketpin/internal/usecase"
)

type notificationService struct {
	directory        service.DirectoryClient
	connectivity     service.ConnectivityChecker
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(
	directory service.DirectoryClient,
	connectivity service.ConnectivityChecker,
	notificationRepo repository.NotificationRepository,
	logger *slog.Logger,
) usecase.NotificationUsecase {
	return &notificationService{
		directory:        directory,
		connectivity:     connectivity,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Merge folds the personal and broadcast streams into the cache and returns
// the unread list, newest first. Entries stay unread until explicitly
// acknowledged through MarkRead; viewing the list marks nothing.
func (s *notificationService) Merge(ctx context.Context, userID string) ([]*entity.Notification, error) {
	if !s.connectivity.Online(ctx) {
		return s.notificationRepo.ListUnreadByUser(ctx, userID)
	}

	personal, err := s.directory.FetchNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}

	broadcasts, err := s.directory.FetchBroadcastNotifications(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	existingIDs := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		existingIDs[n.ID] = struct{}{}
	}

	candidates := make([]*entity.Notification, 0, len(personal)+len(broadcasts))
	for id, n := range personal {
		if n == nil {
			continue
		}
		if n.ID == "" {
			n.ID = id
		}
		candidates = append(candidates, n)
	}
	for id, n := range broadcasts {
		if n == nil {
			continue
		}
		if n.ID == "" {
			n.ID = id
		}
		candidates = append(candidates, n)
	}

	inserted := 0
	for _, candidate := range candidates {
		if _, seen := existingIDs[candidate.ID]; seen {
			// Already cached. Skipping the insert is what preserves the
			// locally flipped read flag.
			continue
		}

		// Broadcasts arrive user-agnostic; stamping makes them addressable
		// in the cache.
		candidate.UserID = userID
		candidate.IsRead = false

		if err := s.notificationRepo.Insert(ctx, candidate); err != nil {
			return nil, err
		}
		existingIDs[candidate.ID] = struct{}{}
		inserted++
	}

	if inserted > 0 {
		s.logger.Debug("Merged notifications",
			slog.String("user_id", userID),
			slog.Int("inserted", inserted),
		)
	}

	return s.notificationRepo.ListUnreadByUser(ctx, userID)
}

// Notifications returns every cached notification for the user, newest first.
func (s *notificationService) Notifications(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

// MarkRead flips the read flag on one notification.
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return domainerrors.ErrNotificationNotFound
		}

		return err
	}

	return nil
}

// HasUnread drives the bell indicator without running a full merge.
func (s *notificationService) HasUnread(ctx context.Context, userID string) (bool, error) {
	unread, err := s.notificationRepo.HasUnread(ctx, userID)
	if err != nil {
		return false, err
	}
	if unread {
		return true, nil
	}

	if !s.connectivity.Online(ctx) {
		return false, nil
	}

	// A broadcast the cache has never seen is unread by definition.
	broadcasts, err := s.directory.FetchBroadcastNotifications(ctx)
	if err != nil {
		return false, err
	}
	if len(broadcasts) == 0 {
		return false, nil
	}

	existing, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	existingIDs := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		existingIDs[n.ID] = struct{}{}
	}

	for id, n := range broadcasts {
		candidateID := id
		if n != nil && n.ID != "" {
			candidateID = n.ID
		}
		if _, seen := existingIDs[candidateID]; !seen {
			return true, nil
		}
	}

	return false, nil
}
