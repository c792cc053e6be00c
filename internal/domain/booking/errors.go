package booking

import "github.com/BruksfildServices01/tour-booking/internal/httperr"

const (
	CodeNotAuthenticated = "not_authenticated"
	CodeForbidden        = "forbidden"

	CodeTourNotFound    = "tour_not_found"
	CodeTourUnavailable = "tour_unavailable"
	CodeSlotNotFound    = "slot_not_found"
	CodeSlotMismatch    = "slot_mismatch"
	CodePastDate        = "past_date"

	CodeCapacityExceeded = "capacity_exceeded"
	CodeDuplicateBooking = "duplicate_booking"

	CodeBookingNotFound          = "booking_not_found"
	CodeInvalidState             = "invalid_state"
	CodeInvalidStatus            = "invalid_status"
	CodeCancellationWindowClosed = "cancellation_window_closed"
	CodeTourNotFinished          = "tour_not_finished"
)

func ErrTourUnavailable(status string) error {
	return httperr.ErrBusinessf(CodeTourUnavailable, "tour is %s and cannot be booked", status)
}

func ErrSlotMismatch(requested, slot Weekday) error {
	return httperr.WithMeta(
		httperr.ErrBusinessf(CodeSlotMismatch, "requested date is a %s but the slot runs on %s", requested, slot),
		map[string]any{"requested_day": requested, "slot_day": slot},
	)
}

func ErrCapacityExceeded(remaining int) error {
	if remaining < 0 {
		remaining = 0
	}
	return httperr.WithMeta(
		httperr.ErrBusinessf(CodeCapacityExceeded, "%d spots remaining", remaining),
		map[string]any{"remaining": remaining},
	)
}

func ErrDuplicateBooking() error {
	return httperr.ErrBusinessf(CodeDuplicateBooking, "you already have an active booking for this tour on that date")
}
