package booking

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// Window is an inclusive range of civil dates.
type Window struct {
	From time.Time
	To   time.Time
}

// DefaultWindow runs from today through today plus months.
func DefaultWindow(today time.Time, months int) Window {
	return Window{From: today, To: today.AddDate(0, months, 0)}
}

// OccupancyKey identifies one departure.
type OccupancyKey struct {
	TourDateID uint
	Date       string
}

func KeyFor(tourDateID uint, date time.Time) OccupancyKey {
	return OccupancyKey{TourDateID: tourDateID, Date: date.Format("2006-01-02")}
}

type AvailableDate struct {
	Date      string  `json:"date"`
	SlotID    uint    `json:"slot_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Remaining int     `json:"remaining_capacity"`
	DayOfWeek Weekday `json:"day_of_week"`
}

// Enumerate lists every bookable departure in the window. occupied holds the
// summed group size of active bookings per departure.
func Enumerate(
	tour *models.Tour,
	slots []models.TourDate,
	occupied map[OccupancyKey]int,
	w Window,
) ([]AvailableDate, error) {

	if !tour.IsAvailable() {
		return nil, ErrTourUnavailable(string(tour.AvailabilityStatus))
	}

	out := []AvailableDate{}
	if len(slots) == 0 || w.To.Before(w.From) {
		return out, nil
	}

	for _, slot := range slots {
		day, err := ParseWeekday(slot.DayOfWeek)
		if err != nil {
			return nil, httperr.ErrBusinessf(CodeInvalidState, "slot %d has an invalid day of week", slot.ID)
		}

		offset := (int(day.Time()) - int(w.From.Weekday()) + 7) % 7
		for d := w.From.AddDate(0, 0, offset); !d.After(w.To); d = d.AddDate(0, 0, 7) {
			remaining := tour.MaxGroupSize - occupied[KeyFor(slot.ID, d)]
			if remaining <= 0 {
				continue
			}
			out = append(out, AvailableDate{
				Date:      d.Format("2006-01-02"),
				SlotID:    slot.ID,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				Remaining: remaining,
				DayOfWeek: day,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].SlotID < out[j].SlotID
	})
	return out, nil
}
