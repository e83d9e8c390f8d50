package usecase

import (
	"context"
	"io"

	"marketpin/internal/domain/entity"
)

// MarketFilter narrows the cached market list for the map view. Zero value
// means no filtering.
type MarketFilter struct {
	// Query matches case-insensitively against name and description.
	Query string `json:"query"`

	// Categories is an OR-union: a market passes when its category is any of
	// these. Empty means all categories.
	Categories []entity.MarketCategory `json:"categories"`
}

// SubmitMarketInput represents the input for submitting a new market
type SubmitMarketInput struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Description  string  `json:"description" validate:"max=2000"`
	Address      string  `json:"address" validate:"required,max=300"`
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
	Category     string  `json:"category" validate:"required"`
	OpeningHours string  `json:"opening_hours" validate:"max=300"`

	// Optional listing photo, uploaded before the record is written.
	PhotoName        string    `json:"-"`
	PhotoContentType string    `json:"-"`
	Photo            io.Reader `json:"-"`
}

// DeleteRequestInput represents the input for reporting a market as closed or
// incorrect.
type DeleteRequestInput struct {
	MarketID string `json:"market_id" validate:"required"`
	Reason   string `json:"reason" validate:"required,max=2000"`

	// Optional evidence photo.
	PhotoName        string    `json:"-"`
	PhotoContentType string    `json:"-"`
	Photo            io.Reader `json:"-"`
}

// MarketUsecase defines the interface for market browsing and submission use cases
type MarketUsecase interface {
	// ApprovedMarkets returns the cached markets passing the filter.
	ApprovedMarkets(ctx context.Context, filter MarketFilter) ([]*entity.Market, error)

	// NearbyMarkets returns cached markets within radiusMeters of the point,
	// nearest first.
	NearbyMarkets(ctx context.Context, lat, lon float64, radiusMeters float64) ([]*entity.Market, error)

	// GetMarket retrieves one cached market by ID.
	GetMarket(ctx context.Context, id string) (*entity.Market, error)

	// SubmitMarket files a new-market request with the remote directory and
	// records the pending submission locally.
	SubmitMarket(ctx context.Context, input *SubmitMarketInput) (*entity.Market, error)

	// SubmitDeleteRequest reports an existing market as closed or incorrect.
	// A repeat report on the same market overwrites the previous one.
	SubmitDeleteRequest(ctx context.Context, input *DeleteRequestInput) (*entity.Submission, error)

	// LikeMarket increments the like counter remotely and in the cache.
	LikeMarket(ctx context.Context, marketID string) (*entity.Market, error)

	// HasOutstandingDeleteRequest reports whether the signed-in user already
	// has a delete request recorded for the market.
	HasOutstandingDeleteRequest(ctx context.Context, marketID string) (bool, error)

	// HasSubmissions reports whether the signed-in user authored any cached
	// market or submission. Gates the submissions screen versus its
	// empty-state prompt.
	HasSubmissions(ctx context.Context) (bool, error)

	// UserSubmissions returns the signed-in user's submission history,
	// newest first.
	UserSubmissions(ctx context.Context) ([]*entity.Submission, error)

	// ShareCode renders a scannable code pointing at the market listing.
	ShareCode(ctx context.Context, marketID string) ([]byte, error)
}
