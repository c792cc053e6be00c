package booking

import (
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// ===============================
// Booking Status
// ===============================

type Status = models.BookingStatus

const (
	StatusPending   = models.BookingPending
	StatusConfirmed = models.BookingConfirmed
	StatusCancelled = models.BookingCancelled
	StatusCompleted = models.BookingCompleted
)

// transitions lists every legal move. Anything missing is rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: nil,
	StatusCompleted: nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", httperr.ErrBusinessf(CodeInvalidStatus, "unknown booking status %q", s)
	}
	return st, nil
}

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusinessf(CodeInvalidState, "booking cannot move from %s to %s", from, to)
}

// IsTerminal reports whether s allows no further transition. Unknown
// statuses are not terminal.
func IsTerminal(s Status) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// IsActive reports whether a booking in s still holds capacity.
func IsActive(s Status) bool {
	for _, a := range models.ActiveBookingStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func InitialStatus() Status {
	return StatusPending
}
