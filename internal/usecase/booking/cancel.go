package booking

import (
	"context"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
)

type CancelBooking struct {
	transition
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache AvailabilityCache,
	rules Rules,
) *CancelBooking {
	return &CancelBooking{transition{repo: repo, audit: audit, cache: cache, rules: rules}}
}

// Execute cancels the actor's own booking.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
) (*models.Booking, error) {

	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	owner := func(b *models.Booking) error {
		if b.UserID != actor.UserID {
			return errForbiddenBooking()
		}
		return nil
	}

	cancel := func(b *models.Booking) error {
		start, err := timezone.At(b.BookedDate, b.TourDate.StartTime, uc.rules.loc())
		if err != nil {
			return err
		}
		return domain.Cancel(b, start, uc.rules.now(), uc.rules.notice())
	}

	return uc.run(ctx, actor, bookingID, "booking_cancelled", owner, cancel, nil)
}

func errForbiddenBooking() error {
	return httperr.ErrBusinessf(domain.CodeForbidden, "you are not allowed to manage this booking")
}
