package models

import "time"

type Role string

const (
	RoleTraveler Role = "traveler"
	RoleGuide    Role = "guide"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTraveler, RoleGuide, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         Role   `gorm:"size:20;default:'traveler'" json:"role"`

	CityID *uint `json:"city_id"`
	City   *City `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"city,omitempty"`

	LastActivityAt *time.Time `json:"last_activity_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
