package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// Migrate is shared by the server and the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.City{},
		&models.User{},
		&models.Guide{},
		&models.Tour{},
		&models.TourDate{},
		&models.Booking{},
		&models.Departure{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// one live booking per traveler, tour and day
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_active_user_tour_date
		ON bookings (user_id, tour_id, booked_date)
		WHERE status <> 'cancelled'
	`).Error
}
