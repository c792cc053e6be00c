// Package testutil opens migrated in-memory databases and seeds the rows
// booking tests need.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/tour-booking/internal/db"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// NewDB returns a fresh sqlite database with the production schema. A single
// connection keeps every caller on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, ":memory:", 1)
}

// NewFileDB returns a sqlite database in a temp file that several
// connections use at once. Writers queue on sqlite's write lock for up to
// the busy timeout.
func NewFileDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "booking.db") + "?_busy_timeout=10000"
	return open(t, dsn, conns)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGuide(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Guide) {
	t.Helper()
	u := SeedUser(t, db, email, models.RoleGuide)
	g := &models.Guide{UserID: u.ID, Biography: "local guide"}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("seed guide: %v", err)
	}
	return u, g
}

// TourOpts tweaks SeedTour. The zero value gives an available tour for ten
// people at 100.00 with one Monday 09:00-12:00 slot.
type TourOpts struct {
	Price        float64
	MaxGroupSize int
	Status       models.AvailabilityStatus
	Slots        []models.TourDate
}

func SeedTour(t *testing.T, db *gorm.DB, guide *models.Guide, opts TourOpts) *models.Tour {
	t.Helper()

	city := &models.City{Name: "Marrakesh", Country: "Morocco"}
	if err := db.Create(city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}

	if opts.Price == 0 {
		opts.Price = 100
	}
	if opts.MaxGroupSize == 0 {
		opts.MaxGroupSize = 10
	}
	if opts.Status == "" {
		opts.Status = models.TourAvailable
	}
	if opts.Slots == nil {
		opts.Slots = []models.TourDate{{DayOfWeek: "monday", StartTime: "09:00", EndTime: "12:00"}}
	}

	tour := &models.Tour{
		GuideID:            guide.ID,
		CityID:             city.ID,
		Title:              "Medina walk",
		Price:              opts.Price,
		Duration:           180,
		MaxGroupSize:       opts.MaxGroupSize,
		AvailabilityStatus: opts.Status,
		TourDates:          opts.Slots,
	}
	if err := db.Create(tour).Error; err != nil {
		t.Fatalf("seed tour: %v", err)
	}
	return tour
}

func SeedBooking(t *testing.T, db *gorm.DB, b models.Booking) *models.Booking {
	t.Helper()
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return &b
}

// Date is a UTC-midnight civil date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
