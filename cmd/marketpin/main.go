package main

import (
	"context"
	"log/slog"
	"os"

	"marketpin/config"
	"marketpin/internal/delivery"
	"marketpin/internal/delivery/http"
	httpmiddleware "marketpin/internal/delivery/http/middleware"
	"marketpin/internal/delivery/http/router/handler"
	"marketpin/internal/delivery/worker"
	"marketpin/internal/infra/auth"
	"marketpin/internal/infra/connectivity"
	logs "marketpin/internal/infra/log"
	"marketpin/internal/infra/persistence/sqlite"
	"marketpin/internal/infra/pubsub"
	"marketpin/internal/infra/qrcode"
	"marketpin/internal/infra/remote/firebase"
	"marketpin/internal/infra/storage"
	"marketpin/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		sqlite.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			sqlite.NewMarketRepository,
			sqlite.NewSubmissionRepository,
			sqlite.NewNotificationRepository,
			sqlite.NewUserRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			firebase.NewDirectoryClient,
			connectivity.NewHTTPProbe,
			auth.NewTokenSession,
			storage.NewBlobPhotoStore,
			pubsub.NewEventPublisher,
			qrcode.NewShareCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSyncService,
			impl.NewMarketService,
			impl.NewNotificationService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmiddleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewMarketHandler,
			handler.NewNotificationHandler,
			handler.NewSyncHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewSyncWorker,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start delivery", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
