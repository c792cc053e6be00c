package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Tour / slot
// --------------------------------------------------

func (r *BookingGormRepository) GetTour(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.WithContext(ctx).First(&tour, id).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *BookingGormRepository) GetSlot(ctx context.Context, id uint) (*models.TourDate, error) {
	var slot models.TourDate
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *BookingGormRepository) ListSlots(ctx context.Context, tourID uint) ([]models.TourDate, error) {
	var slots []models.TourDate
	if err := r.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *BookingGormRepository) GuideIDForUser(ctx context.Context, userID uint) (uint, error) {
	var guide models.Guide
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ?", userID).
		First(&guide).Error; err != nil {
		return 0, err
	}
	return guide.ID, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) Occupancy(
	ctx context.Context,
	tourID uint,
	w domain.Window,
) (map[domain.OccupancyKey]int, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Select("tour_date_id", "booked_date", "group_size").
		Where(
			"tour_id = ? AND status IN ? AND booked_date >= ? AND booked_date <= ?",
			tourID, models.ActiveBookingStatuses, w.From, w.To,
		).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	occupied := make(map[domain.OccupancyKey]int, len(rows))
	for _, b := range rows {
		occupied[domain.KeyFor(b.TourDateID, b.BookedDate)] += b.GroupSize
	}
	return occupied, nil
}

// --------------------------------------------------
// Admission
// --------------------------------------------------

func (r *BookingGormRepository) WithDepartureLock(
	ctx context.Context,
	tourID, tourDateID uint,
	date time.Time,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dep := models.Departure{TourID: tourID, TourDateID: tourDateID, BookedDate: date}
		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dep).Error; err != nil {
			return err
		}

		var locked models.Departure
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tour_id = ? AND tour_date_id = ? AND booked_date = ?", tourID, tourDateID, date).
			First(&locked).Error; err != nil {
			return err
		}

		return fn(&BookingGormRepository{db: tx})
	})
}

func (r *BookingGormRepository) HasActiveBooking(
	ctx context.Context,
	userID, tourID uint,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"user_id = ? AND tour_id = ? AND booked_date = ? AND status IN ?",
			userID, tourID, date, models.ActiveBookingStatuses,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) SumActiveGroupSize(
	ctx context.Context,
	tourID, tourDateID uint,
	date time.Time,
) (int, error) {

	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(group_size), 0)").
		Where(
			"tour_id = ? AND tour_date_id = ? AND booked_date = ? AND status IN ?",
			tourID, tourDateID, date, models.ActiveBookingStatuses,
		).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return int(sum), nil
}

func (r *BookingGormRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// --------------------------------------------------
// State changes
// --------------------------------------------------

func (r *BookingGormRepository) WithLockedBooking(
	ctx context.Context,
	id uint,
	fn func(b *models.Booking) error,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, id).Error; err != nil {
			return err
		}
		if err := tx.First(&b.Tour, b.TourID).Error; err != nil {
			return err
		}
		if err := tx.First(&b.TourDate, b.TourDateID).Error; err != nil {
			return err
		}

		if err := fn(&b); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tour").
		Preload("Tour.City").
		Preload("TourDate").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func applyFilter(q *gorm.DB, f domain.ListFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("bookings.booked_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("bookings.booked_date <= ?", *f.DateTo)
	}
	return q
}

func (r *BookingGormRepository) guideBookings(ctx context.Context, guideID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN tours ON tours.id = bookings.tour_id").
		Where("tours.guide_id = ?", guideID)
}

func (r *BookingGormRepository) ListUserBookings(
	ctx context.Context,
	userID uint,
	f domain.ListFilter,
) ([]models.Booking, error) {

	var out []models.Booking
	q := applyFilter(r.db.WithContext(ctx).Where("bookings.user_id = ?", userID), f)
	if err := q.
		Preload("Tour").
		Preload("Tour.City").
		Preload("TourDate").
		Order("bookings.booked_date DESC, bookings.id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListGuideBookings(
	ctx context.Context,
	guideID uint,
	f domain.ListFilter,
	p domain.Page,
) ([]models.Booking, int64, error) {

	var total int64
	if err := applyFilter(r.guideBookings(ctx, guideID), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Booking
	if err := applyFilter(r.guideBookings(ctx, guideID), f).
		Preload("User").
		Preload("Tour").
		Preload("TourDate").
		Order("bookings.booked_date DESC, bookings.id DESC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *BookingGormRepository) ListGuideBookingsForExport(
	ctx context.Context,
	guideID uint,
	f domain.ListFilter,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := applyFilter(r.guideBookings(ctx, guideID), f).
		Preload("User").
		Preload("Tour").
		Preload("TourDate").
		Order("bookings.booked_date ASC, bookings.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) GuideStatistics(
	ctx context.Context,
	guideID uint,
	today, monthStart time.Time,
) (*domain.Statistics, error) {

	var rows []struct {
		Status  models.BookingStatus
		Total   int64
		Revenue float64
	}
	if err := r.guideBookings(ctx, guideID).
		Select("bookings.status AS status, COUNT(*) AS total, COALESCE(SUM(bookings.total_price), 0) AS revenue").
		Group("bookings.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &domain.Statistics{}
	for _, row := range rows {
		stats.TotalBookings += row.Total
		switch row.Status {
		case models.BookingPending:
			stats.PendingBookings = row.Total
		case models.BookingConfirmed:
			stats.ConfirmedBookings = row.Total
			stats.TotalRevenue += row.Revenue
		case models.BookingCompleted:
			stats.CompletedBookings = row.Total
			stats.TotalRevenue += row.Revenue
		case models.BookingCancelled:
			stats.CancelledBookings = row.Total
		}
	}

	if err := r.guideBookings(ctx, guideID).
		Where("bookings.created_at >= ?", monthStart).
		Count(&stats.ThisMonthBookings).Error; err != nil {
		return nil, err
	}

	if err := r.guideBookings(ctx, guideID).
		Where(
			"bookings.booked_date >= ? AND bookings.status IN ?",
			today, []models.BookingStatus{models.BookingPending, models.BookingConfirmed},
		).
		Count(&stats.UpcomingTours).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *BookingGormRepository) ListGuideCustomers(
	ctx context.Context,
	guideID uint,
	search string,
	p domain.Page,
) ([]domain.Customer, int64, error) {

	base := func() *gorm.DB {
		q := r.guideBookings(ctx, guideID).
			Joins("JOIN users ON users.id = bookings.user_id")
		if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
			like := "%" + s + "%"
			q = q.Where("LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := base().Distinct("bookings.user_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Customer
	if err := base().
		Select("users.id AS id, users.name AS name, users.email AS email, users.phone AS phone, COUNT(bookings.id) AS bookings_count").
		Group("users.id, users.name, users.email, users.phone").
		Order("bookings_count DESC, users.id ASC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Scan(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *BookingGormRepository) ListPendingBetween(
	ctx context.Context,
	from, to time.Time,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Tour").
		Where(
			"status = ? AND booked_date >= ? AND booked_date <= ?",
			models.BookingPending, from, to,
		).
		Order("booked_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
