package booking

import (
	"context"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
)

type CompleteBooking struct {
	transition
}

func NewCompleteBooking(repo domain.Repository, audit *audit.Dispatcher, rules Rules) *CompleteBooking {
	return &CompleteBooking{transition{repo: repo, audit: audit, rules: rules}}
}

func (uc *CompleteBooking) Execute(ctx context.Context, actor domain.Actor, bookingID uint) (*models.Booking, error) {
	owned, err := uc.ownedByGuide(ctx, actor)
	if err != nil {
		return nil, err
	}

	complete := func(b *models.Booking) error {
		end, err := timezone.At(b.BookedDate, b.TourDate.EndTime, uc.rules.loc())
		if err != nil {
			return err
		}
		return domain.Complete(b, end, uc.rules.now())
	}

	return uc.run(ctx, actor, bookingID, "booking_completed", owned, complete, nil)
}
