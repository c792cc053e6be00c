package dto

import (
	"time"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type BookingCustomerDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingDTO struct {
	ID               uint    `json:"id"`
	BookingReference string  `json:"booking_reference"`
	TourID           uint    `json:"tour_id"`
	TourTitle        string  `json:"tour_title,omitempty"`
	TourDateID       uint    `json:"tour_date_id"`
	BookedDate       string  `json:"booked_date"`
	DayOfWeek        string  `json:"day_of_week,omitempty"`
	StartTime        string  `json:"start_time,omitempty"`
	EndTime          string  `json:"end_time,omitempty"`
	GroupSize        int     `json:"group_size"`
	TotalPrice       float64 `json:"total_price"`
	Status           string  `json:"status"`
	SpecialRequests  string  `json:"special_requests,omitempty"`
	DeclineReason    string  `json:"decline_reason,omitempty"`

	Customer *BookingCustomerDTO `json:"customer,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromBooking(b models.Booking) BookingDTO {
	out := BookingDTO{
		ID:               b.ID,
		BookingReference: domain.Reference(b.ID),
		TourID:           b.TourID,
		TourTitle:        b.Tour.Title,
		TourDateID:       b.TourDateID,
		BookedDate:       b.BookedDate.Format("2006-01-02"),
		DayOfWeek:        b.TourDate.DayOfWeek,
		StartTime:        b.TourDate.StartTime,
		EndTime:          b.TourDate.EndTime,
		GroupSize:        b.GroupSize,
		TotalPrice:       b.TotalPrice,
		Status:           string(b.Status),
		SpecialRequests:  b.SpecialRequests,
		DeclineReason:    b.DeclineReason,
		ConfirmedAt:      b.ConfirmedAt,
		CancelledAt:      b.CancelledAt,
		CompletedAt:      b.CompletedAt,
		CreatedAt:        b.CreatedAt,
	}
	if b.User.ID != 0 {
		out.Customer = &BookingCustomerDTO{
			ID:    b.User.ID,
			Name:  b.User.Name,
			Email: b.User.Email,
			Phone: b.User.Phone,
		}
	}
	return out
}

func FromBookings(bs []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBooking(b))
	}
	return out
}
