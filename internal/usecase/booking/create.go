package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TourID          uint
	TourDateID      uint
	BookedDate      time.Time
	GroupSize       int
	SpecialRequests string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache AvailabilityCache
	rules Rules
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache AvailabilityCache,
	rules Rules,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		cache: cache,
		rules: rules,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateBookingInput,
) (*models.Booking, error) {

	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if in.GroupSize < 1 {
		return nil, httperr.ErrBusinessf("invalid_group_size", "group size must be at least 1")
	}
	in.BookedDate = timezone.Date(in.BookedDate)
	if in.BookedDate.Before(uc.rules.today()) {
		return nil, httperr.ErrBusinessf(domain.CodePastDate, "booked date must be today or later")
	}

	// --------------------------------------------------
	// Tour and slot
	// --------------------------------------------------
	tour, err := uc.repo.GetTour(ctx, in.TourID)
	if err != nil {
		return nil, notFound(err, domain.CodeTourNotFound, "tour not found")
	}
	if !tour.IsAvailable() {
		return nil, domain.ErrTourUnavailable(string(tour.AvailabilityStatus))
	}

	slot, err := uc.repo.GetSlot(ctx, in.TourDateID)
	if err != nil {
		return nil, notFound(err, domain.CodeSlotNotFound, "tour date not found")
	}
	if err := domain.CheckSlot(tour, slot, in.BookedDate); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Duplicate + capacity under the departure lock
	// --------------------------------------------------
	var created *models.Booking
	err = uc.repo.WithDepartureLock(ctx, tour.ID, slot.ID, in.BookedDate, func(tx domain.Repository) error {
		dup, err := tx.HasActiveBooking(ctx, actor.UserID, tour.ID, in.BookedDate)
		if err != nil {
			return err
		}
		if dup {
			return domain.ErrDuplicateBooking()
		}

		taken, err := tx.SumActiveGroupSize(ctx, tour.ID, slot.ID, in.BookedDate)
		if err != nil {
			return err
		}
		if remaining := tour.MaxGroupSize - taken; in.GroupSize > remaining {
			return domain.ErrCapacityExceeded(remaining)
		}

		b := &models.Booking{
			UserID:          actor.UserID,
			TourID:          tour.ID,
			TourDateID:      slot.ID,
			BookedDate:      in.BookedDate,
			GroupSize:       in.GroupSize,
			TotalPrice:      domain.TotalPrice(tour.Price, in.GroupSize),
			Status:          domain.InitialStatus(),
			SpecialRequests: in.SpecialRequests,
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			err = domain.ErrDuplicateBooking()
		}
		if httperr.IsBusiness(err, domain.CodeCapacityExceeded) || httperr.IsBusiness(err, domain.CodeDuplicateBooking) {
			slog.Info("booking rejected",
				"reason", httperr.CodeOf(err),
				"actor_id", actor.UserID,
				"tour_id", tour.ID,
				"tour_date_id", slot.ID,
				"booked_date", in.BookedDate.Format("2006-01-02"),
				"group_size", in.GroupSize,
			)
			uc.audit.Dispatch(audit.Event{
				UserID:   &actor.UserID,
				Action:   "booking_rejected",
				Entity:   "tour",
				EntityID: &tour.ID,
				Metadata: map[string]any{
					"reason":       httperr.CodeOf(err),
					"tour_date_id": slot.ID,
					"booked_date":  in.BookedDate.Format("2006-01-02"),
					"group_size":   in.GroupSize,
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// After commit
	// --------------------------------------------------
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, tour.ID)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"reference":  domain.Reference(created.ID),
			"group_size": created.GroupSize,
		},
	})

	slog.Info("booking created",
		"booking_id", created.ID,
		"reference", domain.Reference(created.ID),
		"actor_id", actor.UserID,
		"tour_id", tour.ID,
		"booked_date", in.BookedDate.Format("2006-01-02"),
		"group_size", in.GroupSize,
	)

	created.Tour = *tour
	created.TourDate = *slot
	return created, nil
}
