// Package model contains the GORM-specific structs backing the local cache
// tables.
package model

import (
	"time"
)

// MarketModel is the GORM-specific struct for the 'markets' table. Rows are
// a rebuildable projection of the remote snapshot; only Approved markets
// survive a completed reconciliation pass.
type MarketModel struct {
	ID              string  `gorm:"type:text;primaryKey"`
	Name            string  `gorm:"type:text;not null"`
	Description     string  `gorm:"type:text"`
	Address         string  `gorm:"type:text"`
	Latitude        float64 `gorm:"not null"`
	Longitude       float64 `gorm:"not null"`
	Category        string  `gorm:"type:text;index"`
	OpeningHours    string  `gorm:"type:text"`
	PhotoURL        string  `gorm:"type:text"`
	Likes           int     `gorm:"not null;default:0"`
	SubmittedBy     string  `gorm:"type:text;index"`
	SubmittedByName string  `gorm:"type:text"`
	SubmittedAt     time.Time
	Status          string `gorm:"type:text;not null;default:'Pending'"`
}

// TableName explicitly sets the table name for GORM.
func (MarketModel) TableName() string {
	return "markets"
}
