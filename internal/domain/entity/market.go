// Package entity contains the core business objects of the project.
package entity

import (
	"time"
)

// MarketStatus is the review state assigned to a market by the remote authority.
type MarketStatus string

const (
	MarketStatusPending  MarketStatus = "Pending"
	MarketStatusApproved MarketStatus = "Approved"
	MarketStatusRejected MarketStatus = "Rejected"
)

// MarketCategory is the fixed set of listing types shown as map filters.
type MarketCategory string

const (
	CategoryFarmersMarket      MarketCategory = "Farmers Market"
	CategoryOrganicStore       MarketCategory = "Organic Store"
	CategoryRoadsideStall      MarketCategory = "Roadside Stall"
	CategorySupermarketSection MarketCategory = "Supermarket Section"
)

// MarketCategories lists every valid category, in display order.
func MarketCategories() []MarketCategory {
	return []MarketCategory{
		CategoryFarmersMarket,
		CategoryOrganicStore,
		CategoryRoadsideStall,
		CategorySupermarketSection,
	}
}

// IsValid reports whether the category is one of the fixed enumeration.
func (c MarketCategory) IsValid() bool {
	switch c {
	case CategoryFarmersMarket, CategoryOrganicStore, CategoryRoadsideStall, CategorySupermarketSection:
		return true
	}

	return false
}

// Market represents a produce-market listing. The remote authority owns the
// canonical record; the local cache only ever holds Approved markets after a
// completed reconciliation pass.
type Market struct {
	ID              string         `json:"id"`              // Globally unique ID, assigned at creation, immutable.
	Name            string         `json:"name"`            // Display name of the market.
	Description     string         `json:"description"`     // Free-text description shown in the details panel.
	Address         string         `json:"address"`         // Human-readable street address.
	Latitude        float64        `json:"latitude"`        // Geographic latitude of the map pin.
	Longitude       float64        `json:"longitude"`       // Geographic longitude of the map pin.
	Category        MarketCategory `json:"type"`            // One of the fixed listing categories.
	OpeningHours    string         `json:"openingHours"`    // Free-text opening hours.
	PhotoURL        string         `json:"photoUrl"`        // Public URL of the listing photo, if any.
	Likes           int            `json:"likes"`           // Like counter, incremented locally.
	SubmittedBy     string         `json:"submittedBy"`     // User ID of the submitter.
	SubmittedByName string         `json:"submittedByName"` // Display name of the submitter at submission time.
	SubmittedAt     time.Time      `json:"submittedAt"`     // Timestamp of the original submission.
	Status          MarketStatus   `json:"status"`          // Review state; only Approved markets render as pins.
}
