package booking

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// transition is the shared shape of every state change: lock the booking,
// authorize, apply the domain action, persist, then audit and log.
type transition struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache AvailabilityCache
	rules Rules
}

func (t *transition) run(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
	action string,
	authorize func(b *models.Booking) error,
	apply func(b *models.Booking) error,
	meta map[string]any,
) (*models.Booking, error) {

	b, err := t.repo.WithLockedBooking(ctx, bookingID, func(b *models.Booking) error {
		if err := authorize(b); err != nil {
			return err
		}
		return apply(b)
	})
	if err != nil {
		return nil, notFound(err, domain.CodeBookingNotFound, "booking not found")
	}

	if b.Status == domain.StatusCancelled && t.cache != nil {
		t.cache.Invalidate(ctx, b.TourID)
	}

	t.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   action,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: meta,
	})

	slog.Info("booking "+string(b.Status),
		"action", action,
		"booking_id", b.ID,
		"reference", domain.Reference(b.ID),
		"actor_id", actor.UserID,
		"tour_id", b.TourID,
	)
	return b, nil
}

// ownedByGuide resolves the guide first so a non-guide never touches the row.
func (t *transition) ownedByGuide(ctx context.Context, actor domain.Actor) (func(b *models.Booking) error, error) {
	guideID, err := guideFor(ctx, t.repo, actor)
	if err != nil {
		return nil, err
	}
	return func(b *models.Booking) error {
		if b.Tour.GuideID != guideID {
			return errForbiddenBooking()
		}
		return nil
	}, nil
}
