package model

import (
	"time"
)

// SubmissionModel is the GORM-specific struct for the 'submissions' table.
type SubmissionModel struct {
	ID              string `gorm:"type:text;primaryKey"`
	MarketID        string `gorm:"type:text;index"`
	MarketName      string `gorm:"type:text"`
	SubmittedBy     string `gorm:"type:text;index"`
	SubmittedByName string `gorm:"type:text"`
	Status          string `gorm:"type:text;not null;default:'Pending'"`
	Kind            string `gorm:"type:text;not null;default:'New';index"`
	ChangeDetails   string `gorm:"type:text"`
	SubmittedAt     time.Time
	ReviewedAt      *time.Time
	ReviewedBy      *string `gorm:"type:text"`
	RejectionReason *string `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (SubmissionModel) TableName() string {
	return "submissions"
}
