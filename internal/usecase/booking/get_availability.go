package booking

import (
	"context"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type AvailabilityResult struct {
	Tour   *models.Tour
	Window domain.Window
	Dates  []domain.AvailableDate
}

type GetAvailability struct {
	repo  domain.Repository
	cache AvailabilityCache
	rules Rules
}

func NewGetAvailability(repo domain.Repository, cache AvailabilityCache, rules Rules) *GetAvailability {
	return &GetAvailability{repo: repo, cache: cache, rules: rules}
}

func (uc *GetAvailability) Execute(ctx context.Context, tourID uint) (*AvailabilityResult, error) {
	tour, err := uc.repo.GetTour(ctx, tourID)
	if err != nil {
		return nil, notFound(err, domain.CodeTourNotFound, "tour not found")
	}
	if !tour.IsAvailable() {
		return nil, domain.ErrTourUnavailable(string(tour.AvailabilityStatus))
	}

	w := domain.DefaultWindow(uc.rules.today(), uc.rules.windowMonths())
	res := &AvailabilityResult{Tour: tour, Window: w}

	// read the generation before occupancy so a concurrent invalidation
	// orphans what we store below
	var gen int64
	if uc.cache != nil {
		gen = uc.cache.Generation(ctx, tourID)
		if dates, ok := uc.cache.Get(ctx, tourID, gen, w.From); ok {
			res.Dates = dates
			return res, nil
		}
	}

	slots, err := uc.repo.ListSlots(ctx, tourID)
	if err != nil {
		return nil, err
	}

	occupied, err := uc.repo.Occupancy(ctx, tourID, w)
	if err != nil {
		return nil, err
	}

	res.Dates, err = domain.Enumerate(tour, slots, occupied, w)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, tourID, gen, w.From, res.Dates)
	}
	return res, nil
}
