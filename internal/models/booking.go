package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// ActiveBookingStatuses hold capacity on a departure.
var ActiveBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingCompleted,
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	TourID uint `gorm:"index;not null" json:"tour_id"`
	Tour   Tour `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tour"`

	TourDateID uint     `gorm:"index;not null" json:"tour_date_id"`
	TourDate   TourDate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tour_date"`

	// BookedDate is a civil date stored as UTC midnight.
	BookedDate time.Time `gorm:"type:date;not null;index" json:"booked_date"`
	GroupSize  int       `gorm:"not null" json:"group_size"`
	TotalPrice float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`

	Status          BookingStatus `gorm:"size:20;default:'pending';index" json:"status"`
	SpecialRequests string        `gorm:"type:text" json:"special_requests,omitempty"`
	DeclineReason   string        `gorm:"size:500" json:"decline_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Departure is the lock row for one (tour, slot, date). Admission locks it
// before summing group sizes.
type Departure struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TourID     uint      `gorm:"uniqueIndex:ux_departures_slot_date;not null" json:"tour_id"`
	TourDateID uint      `gorm:"uniqueIndex:ux_departures_slot_date;not null" json:"tour_date_id"`
	BookedDate time.Time `gorm:"uniqueIndex:ux_departures_slot_date;type:date;not null" json:"booked_date"`

	CreatedAt time.Time `json:"created_at"`
}
