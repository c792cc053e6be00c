package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/infra/repository"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestPendingReminderFlagsUpcomingPending(t *testing.T) {
	db := testutil.NewDB(t)
	traveler := testutil.SeedUser(t, db, "traveler@example.com", models.RoleTraveler)
	_, guide := testutil.SeedGuide(t, db, "guide@example.com")
	tour := testutil.SeedTour(t, db, guide, testutil.TourOpts{})
	slot := tour.TourDates[0]

	// 2025-06-02 is a Monday
	soon := testutil.Date(2025, 6, 2)
	later := testutil.Date(2025, 6, 9)

	seed := func(userID uint, date time.Time, status models.BookingStatus) {
		testutil.SeedBooking(t, db, models.Booking{
			UserID:     userID,
			TourID:     tour.ID,
			TourDateID: slot.ID,
			BookedDate: date,
			GroupSize:  2,
			TotalPrice: 200,
			Status:     status,
		})
	}
	seed(traveler.ID, soon, models.BookingPending)
	seed(traveler.ID, later, models.BookingPending)

	other := testutil.SeedUser(t, db, "other@example.com", models.RoleTraveler)
	seed(other.ID, soon, models.BookingConfirmed)

	j := NewPendingReminder(repository.NewBookingGormRepository(db), nil, time.UTC)
	j.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

	n, err := j.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Fatalf("flagged %d bookings, want 1", n)
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	j := NewPendingReminder(nil, nil, time.UTC)

	if err := s.AddPendingReminder("not a spec", j); err == nil {
		t.Fatal("expected an error for an invalid spec")
	}
	if err := s.AddPendingReminder("0 8 * * *", j); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}
