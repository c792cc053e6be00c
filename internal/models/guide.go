package models

import (
	"time"

	"gorm.io/datatypes"
)

// Guide is the public profile attached to a user with the guide role.
type Guide struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Languages  datatypes.JSON `json:"languages"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	Rating     float64        `gorm:"default:0" json:"rating"`
	Biography  string         `gorm:"type:text" json:"biography"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
