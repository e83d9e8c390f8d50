// Package storage uploads market photos to a blob bucket via the portable
// gocloud driver set, so development runs against a local directory while
// production points at a cloud bucket URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"

	"marketpin/config"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/service"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type blobPhotoStore struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// NewBlobPhotoStore opens the configured bucket and closes it on shutdown.
func NewBlobPhotoStore(params Params) (service.PhotoStore, error) {
	cfg := params.Config
	if cfg.Storage == nil || cfg.Storage.BucketURL == "" {
		return nil, errors.New("storage.bucketUrl must be configured")
	}

	bucket, err := blob.OpenBucket(context.Background(), cfg.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open photo bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobPhotoStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		logger:        params.Logger,
	}, nil
}

// Upload stores the photo under a collision-free object key and returns the
// public URL to embed in the listing.
func (s *blobPhotoStore) Upload(ctx context.Context, name string, contentType string, body io.Reader) (string, error) {
	key := objectKey(name)

	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", domainerrors.ErrPhotoUploadFailed.WithDetails(err.Error())
	}

	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()

		return "", domainerrors.ErrPhotoUploadFailed.WithDetails(err.Error())
	}

	if err := writer.Close(); err != nil {
		return "", domainerrors.ErrPhotoUploadFailed.WithDetails(err.Error())
	}

	s.logger.Debug("Uploaded photo", slog.String("key", key))

	if s.publicBaseURL == "" {
		return key, nil
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}

// objectKey prefixes a sanitized filename with a UUID so repeat uploads of
// the same filename never clobber each other.
func objectKey(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if cleaned == "" {
		cleaned = "photo"
	}

	return fmt.Sprintf("photos/%s-%s", uuid.NewString(), cleaned)
}
