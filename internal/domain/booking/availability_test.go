package booking

import (
	"testing"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

func TestEnumerateUnavailableTour(t *testing.T) {
	for _, st := range []models.AvailabilityStatus{models.TourUnavailable, models.TourTemporarilyUnavailable} {
		tour := &models.Tour{ID: 1, MaxGroupSize: 10, AvailabilityStatus: st}
		slots := []models.TourDate{{ID: 1, TourID: 1, DayOfWeek: "monday", StartTime: "09:00", EndTime: "12:00"}}

		got, err := Enumerate(tour, slots, nil, DefaultWindow(date(2025, 6, 1), 3))
		if !httperr.IsBusiness(err, CodeTourUnavailable) {
			t.Fatalf("%s: expected tour_unavailable, got %v", st, err)
		}
		if got != nil {
			t.Fatalf("%s: partial result %v", st, got)
		}
	}
}

func TestEnumerateNoSlots(t *testing.T) {
	tour := &models.Tour{ID: 1, MaxGroupSize: 10, AvailabilityStatus: models.TourAvailable}

	got, err := Enumerate(tour, nil, nil, DefaultWindow(date(2025, 6, 1), 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestEnumerateSkipsFullDepartures(t *testing.T) {
	tour := &models.Tour{ID: 1, MaxGroupSize: 10, AvailabilityStatus: models.TourAvailable}
	slots := []models.TourDate{
		{ID: 2, TourID: 1, DayOfWeek: "monday", StartTime: "14:00", EndTime: "16:00"},
		{ID: 1, TourID: 1, DayOfWeek: "monday", StartTime: "09:00", EndTime: "12:00"},
	}
	occupied := map[OccupancyKey]int{
		KeyFor(1, date(2025, 6, 2)): 10,
		KeyFor(1, date(2025, 6, 9)): 7,
	}

	// Sunday 2025-06-01 through Monday 2025-06-16
	got, err := Enumerate(tour, slots, occupied, Window{From: date(2025, 6, 1), To: date(2025, 6, 16)})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}

	want := []struct {
		date      string
		slot      uint
		remaining int
	}{
		{"2025-06-02", 2, 10},
		{"2025-06-09", 1, 3},
		{"2025-06-09", 2, 10},
		{"2025-06-16", 1, 10},
		{"2025-06-16", 2, 10},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d dates: %+v", len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Date != w.date || g.SlotID != w.slot || g.Remaining != w.remaining || g.DayOfWeek != Monday {
			t.Errorf("row %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestDefaultWindow(t *testing.T) {
	w := DefaultWindow(date(2025, 11, 30), 3)
	if !w.To.Equal(date(2026, 3, 2)) {
		t.Fatalf("to = %s", w.To)
	}
}
