package model

import (
	"time"
)

// NotificationModel is the GORM-specific struct for the 'notifications'
// table. Rows are never deleted; IsRead is the only field mutated after
// insertion.
type NotificationModel struct {
	ID              string `gorm:"type:text;primaryKey"`
	UserID          string `gorm:"type:text;index"`
	Title           string `gorm:"type:text"`
	Body            string `gorm:"type:text"`
	Category        string `gorm:"type:text"`
	RelatedMarketID *string `gorm:"type:text"`
	CreatedAt       time.Time
	IsRead          bool `gorm:"not null;default:false;index"`
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}
