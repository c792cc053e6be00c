package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type ListFilter struct {
	Status   Status
	DateFrom *time.Time
	DateTo   *time.Time
}

type Page struct {
	Page    int
	PerPage int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type Statistics struct {
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	ThisMonthBookings int64   `json:"this_month_bookings"`
	UpcomingTours     int64   `json:"upcoming_tours"`
}

type Customer struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	BookingsCount int64  `json:"bookings_count"`
}

type Repository interface {
	// -------- Tour / slot --------
	GetTour(ctx context.Context, id uint) (*models.Tour, error)
	GetSlot(ctx context.Context, id uint) (*models.TourDate, error)
	ListSlots(ctx context.Context, tourID uint) ([]models.TourDate, error)
	GuideIDForUser(ctx context.Context, userID uint) (uint, error)

	// -------- Availability --------
	Occupancy(ctx context.Context, tourID uint, w Window) (map[OccupancyKey]int, error)

	// -------- Admission --------

	// WithDepartureLock runs fn in a transaction holding the lock row for
	// (tour, slot, date). fn must only use the repository it is handed.
	WithDepartureLock(
		ctx context.Context,
		tourID, tourDateID uint,
		date time.Time,
		fn func(tx Repository) error,
	) error

	HasActiveBooking(ctx context.Context, userID, tourID uint, date time.Time) (bool, error)
	SumActiveGroupSize(ctx context.Context, tourID, tourDateID uint, date time.Time) (int, error)
	CreateBooking(ctx context.Context, b *models.Booking) error

	// -------- State changes --------

	// WithLockedBooking loads the booking FOR UPDATE inside a transaction
	// and persists it after fn succeeds.
	WithLockedBooking(
		ctx context.Context,
		id uint,
		fn func(b *models.Booking) error,
	) (*models.Booking, error)

	GetBooking(ctx context.Context, id uint) (*models.Booking, error)

	// -------- Listings --------
	ListUserBookings(ctx context.Context, userID uint, f ListFilter) ([]models.Booking, error)
	ListGuideBookings(ctx context.Context, guideID uint, f ListFilter, p Page) ([]models.Booking, int64, error)
	ListGuideBookingsForExport(ctx context.Context, guideID uint, f ListFilter) ([]models.Booking, error)
	GuideStatistics(ctx context.Context, guideID uint, today, monthStart time.Time) (*Statistics, error)
	ListGuideCustomers(ctx context.Context, guideID uint, search string, p Page) ([]Customer, int64, error)
	ListPendingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}
