// Package delivery defines the contract shared by every serving surface of
// the process, so the entrypoint can start them uniformly.
package delivery

import (
	"context"
)

// Delivery is a long-running serving loop (HTTP facade, background sync
// worker). Serve blocks until the loop stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
