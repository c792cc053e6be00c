package booking

import (
	"context"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type AcceptBooking struct {
	transition
}

func NewAcceptBooking(repo domain.Repository, audit *audit.Dispatcher, rules Rules) *AcceptBooking {
	return &AcceptBooking{transition{repo: repo, audit: audit, rules: rules}}
}

func (uc *AcceptBooking) Execute(ctx context.Context, actor domain.Actor, bookingID uint) (*models.Booking, error) {
	owned, err := uc.ownedByGuide(ctx, actor)
	if err != nil {
		return nil, err
	}

	accept := func(b *models.Booking) error {
		return domain.Accept(b, uc.rules.today(), uc.rules.now())
	}

	return uc.run(ctx, actor, bookingID, "booking_accepted", owned, accept, nil)
}
