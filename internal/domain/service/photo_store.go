package service

import (
	"context"
	"io"
)

// PhotoStore uploads listing and evidence photos to a blob bucket and returns
// a publicly addressable URL for the stored object.
type PhotoStore interface {
	Upload(ctx context.Context, name string, contentType string, body io.Reader) (string, error)
}
