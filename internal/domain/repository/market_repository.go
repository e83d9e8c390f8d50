// Package repository defines the interfaces for the local cache store. The
// cache is a disposable projection of the remote authority: every contract
// here must stay rebuildable from a fresh remote fetch.
package repository

import (
	"context"
	"errors"

	"marketpin/internal/domain/entity"
)

// ErrMarketNotFound is returned when a market is not in the local cache.
var ErrMarketNotFound = errors.New("market not found in cache")

// MarketRepository defines the local cache operations for market records.
type MarketRepository interface {
	// Upsert inserts the market or replaces the cached row with the same ID.
	Upsert(ctx context.Context, market *entity.Market) error

	// FindByID retrieves a cached market, or ErrMarketNotFound.
	FindByID(ctx context.Context, id string) (*entity.Market, error)

	// ListAll returns every cached market. After a completed reconciliation
	// pass these are exactly the remotely Approved markets.
	ListAll(ctx context.Context) ([]*entity.Market, error)

	// ListBySubmitter returns cached markets submitted by the given user.
	ListBySubmitter(ctx context.Context, userID string) ([]*entity.Market, error)

	// Delete removes the market with the given ID. Deleting an absent ID is
	// not an error; reconciliation re-runs deletes freely.
	Delete(ctx context.Context, id string) error
}
