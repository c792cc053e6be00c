package booking

import (
	"context"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// ======================================================
// Traveler side
// ======================================================

type ListUserBookings struct {
	repo domain.Repository
}

func NewListUserBookings(repo domain.Repository) *ListUserBookings {
	return &ListUserBookings{repo: repo}
}

func (uc *ListUserBookings) Execute(ctx context.Context, actor domain.Actor, f domain.ListFilter) ([]models.Booking, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	return uc.repo.ListUserBookings(ctx, actor.UserID, f)
}

type GetUserBooking struct {
	repo domain.Repository
}

func NewGetUserBooking(repo domain.Repository) *GetUserBooking {
	return &GetUserBooking{repo: repo}
}

func (uc *GetUserBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	b, err := uc.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.CodeBookingNotFound, "booking not found")
	}
	// other travelers' bookings do not exist as far as the caller knows
	if b.UserID != actor.UserID {
		return nil, httperr.ErrBusinessf(domain.CodeBookingNotFound, "booking not found")
	}
	return b, nil
}

// ======================================================
// Guide side
// ======================================================

type ListGuideBookings struct {
	repo domain.Repository
}

func NewListGuideBookings(repo domain.Repository) *ListGuideBookings {
	return &ListGuideBookings{repo: repo}
}

func (uc *ListGuideBookings) Execute(
	ctx context.Context,
	actor domain.Actor,
	f domain.ListFilter,
	p domain.Page,
) ([]models.Booking, int64, error) {

	guideID, err := guideFor(ctx, uc.repo, actor)
	if err != nil {
		return nil, 0, err
	}
	return uc.repo.ListGuideBookings(ctx, guideID, f, p)
}

type GetGuideBooking struct {
	repo domain.Repository
}

func NewGetGuideBooking(repo domain.Repository) *GetGuideBooking {
	return &GetGuideBooking{repo: repo}
}

func (uc *GetGuideBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	guideID, err := guideFor(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}
	b, err := uc.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.CodeBookingNotFound, "booking not found")
	}
	if b.Tour.GuideID != guideID {
		return nil, errForbiddenBooking()
	}
	return b, nil
}
