package service

import (
	"context"
)

// ConnectivityChecker reports whether a usable network path to the remote
// authority exists. Consulted before any reconciliation attempt; when it
// reports offline the caller falls back to the cached data.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}
