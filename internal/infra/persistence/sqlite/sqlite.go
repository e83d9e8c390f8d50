// Package sqlite contains the concrete implementation of the local cache
// using GORM over an on-device SQLite file. The cache is a disposable
// projection of the remote authority; dropping the file and re-syncing is
// always safe (the notification read flags are the only local-only state).
package sqlite

import (
	"context"
	"log/slog"

	"marketpin/config"
	"marketpin/internal/domain/lifecycle"
	"marketpin/internal/errors"
	"marketpin/internal/infra/persistence/model"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the cache database and migrates the schema.
func New(params Params) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(params.Config.Cache.Path), &gorm.Config{
		// The reconciliation pass is deliberately non-transactional: a crash
		// mid-pass leaves a valid-but-stale cache that the next pass repairs.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open cache database")
	}

	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.MarketModel{},
		&model.SubmissionModel{},
		&model.NotificationModel{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to migrate cache schema")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cache sql.DB")
	}
	// One writer at a time keeps SQLite happy under the sync loop plus the
	// facade's reads.
	sqlDB.SetMaxOpenConns(1)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping cache database")
			}

			params.Logger.Info("Cache database ready",
				slog.String("path", params.Config.Cache.Path),
			)

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}
