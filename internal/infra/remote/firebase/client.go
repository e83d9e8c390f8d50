// Package firebase implements the remote directory client against a Firebase
// Realtime Database. The node layout mirrors the document store used by the
// review dashboard: /markets and /submissions keyed by market ID,
// /notifications/{uid} for personal messages and /notifications/broadcast
// for the broadcast stream.
package firebase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"marketpin/config"
	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const (
	marketsNode       = "markets"
	submissionsNode   = "submissions"
	notificationsNode = "notifications"
	broadcastChild    = "broadcast"
)

type directoryClient struct {
	db      *db.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewDirectoryClient connects to the realtime database configured under
// directory.databaseUrl.
func NewDirectoryClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.DirectoryClient, error) {
	var opts []option.ClientOption
	if cfg.Directory.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Directory.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.Directory.DatabaseURL}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database client")
	}

	return &directoryClient{
		db:      client,
		timeout: cfg.Sync.Timeout,
		logger:  logger,
	}, nil
}

// FetchAllMarkets returns the full remote market snapshot, all statuses included.
func (c *directoryClient) FetchAllMarkets(ctx context.Context) (map[string]*entity.Market, error) {
	var snapshot map[string]*entity.Market
	if err := c.get(ctx, c.db.NewRef(marketsNode), &snapshot); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched market snapshot", slog.Int("count", len(snapshot)))

	return snapshot, nil
}

// FetchAllSubmissions returns the full remote submission snapshot.
func (c *directoryClient) FetchAllSubmissions(ctx context.Context) (map[string]*entity.Submission, error) {
	var snapshot map[string]*entity.Submission
	if err := c.get(ctx, c.db.NewRef(submissionsNode), &snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// FetchNotifications returns the remote notifications addressed to the user.
func (c *directoryClient) FetchNotifications(ctx context.Context, userID string) (map[string]*entity.Notification, error) {
	if userID == "" {
		return nil, nil
	}

	var snapshot map[string]*entity.Notification
	if err := c.get(ctx, c.db.NewRef(notificationsNode).Child(userID), &snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// FetchBroadcastNotifications returns the remote broadcast stream.
func (c *directoryClient) FetchBroadcastNotifications(ctx context.Context) (map[string]*entity.Notification, error) {
	var snapshot map[string]*entity.Notification
	if err := c.get(ctx, c.db.NewRef(notificationsNode).Child(broadcastChild), &snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// PutMarket writes a market record keyed by its ID, so the local and remote
// IDs stay identical.
func (c *directoryClient) PutMarket(ctx context.Context, market *entity.Market) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.db.NewRef(marketsNode).Child(market.ID).Set(ctx, market); err != nil {
		return domainerrors.ErrNetworkFailed.WithDetails(err.Error())
	}

	return nil
}

// PutSubmission writes a submission keyed by its market ID. Repeat reports on
// the same market overwrite the previous one.
func (c *directoryClient) PutSubmission(ctx context.Context, submission *entity.Submission) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.db.NewRef(submissionsNode).Child(submission.MarketID).Set(ctx, submission); err != nil {
		return domainerrors.ErrNetworkFailed.WithDetails(err.Error())
	}

	return nil
}

// get wraps ref.Get with the sync timeout and classifies failures: a payload
// that fails to decode is a data-shape error, everything else is a network
// failure. Absent nodes decode to a nil map, which callers treat as empty.
func (c *directoryClient) get(ctx context.Context, ref *db.Ref, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := ref.Get(ctx, out); err != nil {
		if isDecodeError(err) {
			return domainerrors.ErrDataShapeInvalid.WithDetails(err.Error())
		}

		return domainerrors.ErrNetworkFailed.WithDetails(err.Error())
	}

	return nil
}

func isDecodeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	return errors.As(err, &typeErr) || errors.As(err, &syntaxErr)
}
