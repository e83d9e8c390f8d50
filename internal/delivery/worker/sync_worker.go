// Package worker runs the background reconciliation loop.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketpin/config"
	"marketpin/internal/delivery"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/service"
	"marketpin/internal/usecase"

	"go.uber.org/fx"
)

// SyncWorkerParams holds dependencies for the background sync loop
type SyncWorkerParams struct {
	fx.In

	Lc            fx.Lifecycle
	Cfg           *config.Config
	Logger        *slog.Logger
	Session       service.SessionService
	Sync          usecase.SyncUsecase
	Notifications usecase.NotificationUsecase
}

type syncWorker struct {
	cfg           *config.Config
	logger        *slog.Logger
	session       service.SessionService
	sync          usecase.SyncUsecase
	notifications usecase.NotificationUsecase

	done chan struct{}
}

// NewSyncWorker creates the periodic reconciliation loop. It runs one pass
// immediately on start and then once per configured interval. Failures are
// logged and the loop keeps running; the cache stays valid but stale until
// the next successful pass.
func NewSyncWorker(params SyncWorkerParams) (delivery.Delivery, error) {
	w := &syncWorker{
		cfg:           params.Cfg,
		logger:        params.Logger,
		session:       params.Session,
		sync:          params.Sync,
		notifications: params.Notifications,
		done:          make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: w.stop,
	})

	return w, nil
}

// Serve runs the loop until stopped.
func (w *syncWorker) Serve(ctx context.Context) error {
	w.logger.Info("Starting sync worker", slog.Duration("interval", w.cfg.Sync.Interval))

	ticker := time.NewTicker(w.cfg.Sync.Interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-w.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *syncWorker) runOnce(ctx context.Context) {
	user, err := w.session.CurrentUser(ctx)
	if err != nil {
		// Nothing to reconcile without a signed-in user.
		if errors.Is(err, domainerrors.ErrNotLoggedIn) || errors.Is(err, domainerrors.ErrSessionExpired) {
			w.logger.Debug("Sync pass skipped, no active session")

			return
		}

		w.logger.Warn("Sync pass skipped", slog.Any("error", err))

		return
	}

	report, err := w.sync.Reconcile(ctx, user.ID)
	if err != nil {
		w.logger.Warn("Reconciliation failed", slog.Any("error", err))
	} else if report.Synced {
		w.logger.Info("Reconciliation finished",
			slog.Int("upserted", report.MarketsUpserted),
			slog.Int("deleted", report.MarketsDeleted),
			slog.Int("orphans", report.OrphansRemoved),
			slog.Int("submissions", report.SubmissionsStored),
		)
	}

	if _, err := w.notifications.Merge(ctx, user.ID); err != nil {
		w.logger.Warn("Notification merge failed", slog.Any("error", err))
	}
}

func (w *syncWorker) stop(_ context.Context) error {
	w.logger.Info("Stopping sync worker")
	close(w.done)

	return nil
}
