package model

import (
	"time"
)

// UserModel is the GORM-specific struct for the 'users' table.
type UserModel struct {
	ID          string `gorm:"type:text;primaryKey"`
	Email       string `gorm:"type:text;index"`
	DisplayName string `gorm:"type:text"`
	Role        string `gorm:"type:text;not null;default:'User'"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
