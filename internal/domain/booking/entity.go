package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// Reference is the customer-facing booking code.
func Reference(id uint) string {
	return fmt.Sprintf("BK-%06d", id)
}

func TotalPrice(price float64, groupSize int) float64 {
	return math.Round(price*float64(groupSize)*100) / 100
}

// CheckSlot validates that the slot belongs to the tour and runs on the
// weekday of the booked date.
func CheckSlot(tour *models.Tour, slot *models.TourDate, bookedDate time.Time) error {
	if slot.TourID != tour.ID {
		return httperr.ErrBusinessf(CodeSlotMismatch, "slot %d does not belong to tour %d", slot.ID, tour.ID)
	}

	slotDay, err := ParseWeekday(slot.DayOfWeek)
	if err != nil {
		return err
	}
	if requested := WeekdayOf(bookedDate); requested != slotDay {
		return ErrSlotMismatch(requested, slotDay)
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

// Accept confirms a pending booking. today is the civil date in the app zone.
func Accept(b *models.Booking, today, now time.Time) error {
	if err := CanTransition(b.Status, StatusConfirmed); err != nil {
		return err
	}
	if b.BookedDate.Before(today) {
		return httperr.ErrBusinessf(CodePastDate, "cannot accept a booking for a past date")
	}

	b.Status = StatusConfirmed
	b.ConfirmedAt = &now
	return nil
}

func Decline(b *models.Booking, reason string, now time.Time) error {
	if b.Status != StatusPending {
		return httperr.ErrBusinessf(CodeInvalidState, "only pending bookings can be declined")
	}

	b.Status = StatusCancelled
	b.DeclineReason = reason
	b.CancelledAt = &now
	return nil
}

// Cancel is the traveler's cancellation. It closes notice before start.
func Cancel(b *models.Booking, start, now time.Time, notice time.Duration) error {
	if err := CanTransition(b.Status, StatusCancelled); err != nil {
		return err
	}
	if now.After(start.Add(-notice)) {
		return httperr.ErrBusinessf(
			CodeCancellationWindowClosed,
			"bookings can only be cancelled at least %s before the tour starts", formatNotice(notice),
		)
	}

	b.Status = StatusCancelled
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, end, now time.Time) error {
	if err := CanTransition(b.Status, StatusCompleted); err != nil {
		return err
	}
	if now.Before(end) {
		return httperr.ErrBusinessf(CodeTourNotFinished, "the tour has not finished yet")
	}

	b.Status = StatusCompleted
	b.CompletedAt = &now
	return nil
}

func formatNotice(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}
