package booking

import (
	"context"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type DeclineBooking struct {
	transition
}

func NewDeclineBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache AvailabilityCache,
	rules Rules,
) *DeclineBooking {
	return &DeclineBooking{transition{repo: repo, audit: audit, cache: cache, rules: rules}}
}

func (uc *DeclineBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	owned, err := uc.ownedByGuide(ctx, actor)
	if err != nil {
		return nil, err
	}

	decline := func(b *models.Booking) error {
		return domain.Decline(b, reason, uc.rules.now())
	}

	var meta map[string]any
	if reason != "" {
		meta = map[string]any{"reason": reason}
	}
	return uc.run(ctx, actor, bookingID, "booking_declined", owned, decline, meta)
}
