package models

import "time"

type AvailabilityStatus string

const (
	TourAvailable              AvailabilityStatus = "available"
	TourUnavailable            AvailabilityStatus = "unavailable"
	TourTemporarilyUnavailable AvailabilityStatus = "temporarily_unavailable"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case TourAvailable, TourUnavailable, TourTemporarilyUnavailable:
		return true
	}
	return false
}

type Tour struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GuideID uint  `gorm:"index" json:"guide_id"`
	Guide   Guide `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"guide"`

	CityID uint `gorm:"index" json:"city_id"`
	City   City `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"city"`

	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"size:2000" json:"description"`
	Location    string  `gorm:"size:255" json:"location"`
	Category    string  `gorm:"size:50" json:"category"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	// Duration in minutes.
	Duration     int `gorm:"not null" json:"duration"`
	MaxGroupSize int `gorm:"not null" json:"max_group_size"`

	AvailabilityStatus  AvailabilityStatus `gorm:"size:30;default:'available'" json:"availability_status"`
	IsTransportIncluded bool               `gorm:"default:false" json:"is_transport_included"`
	IsFoodIncluded      bool               `gorm:"default:false" json:"is_food_included"`

	TourDates []TourDate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tour_dates"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tour) IsAvailable() bool {
	return t.AvailabilityStatus == TourAvailable
}
