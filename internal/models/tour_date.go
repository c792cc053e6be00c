package models

import "time"

// TourDate is a weekly recurring slot. StartTime and EndTime are local "HH:MM".
type TourDate struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TourID uint `gorm:"index;not null" json:"tour_id"`

	DayOfWeek string `gorm:"size:10;not null" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
