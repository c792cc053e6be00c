package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
)

// AvailabilityCache stores enumerated dates under a per-tour generation that
// Invalidate advances.
type AvailabilityCache interface {
	Generation(ctx context.Context, tourID uint) int64
	Get(ctx context.Context, tourID uint, gen int64, from time.Time) ([]domain.AvailableDate, bool)
	Set(ctx context.Context, tourID uint, gen int64, from time.Time, dates []domain.AvailableDate)
	Invalidate(ctx context.Context, tourID uint)
}

type Exporter interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Rules carries the clock and the tunable booking policy.
type Rules struct {
	Location           *time.Location
	WindowMonths       int
	CancellationNotice time.Duration
	Now                func() time.Time
}

func (r Rules) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now().In(r.loc())
	}
	return time.Now().In(r.loc())
}

func (r Rules) today() time.Time {
	return timezone.Date(r.now())
}

func (r Rules) windowMonths() int {
	if r.WindowMonths <= 0 {
		return 3
	}
	return r.WindowMonths
}

func (r Rules) notice() time.Duration {
	if r.CancellationNotice <= 0 {
		return 24 * time.Hour
	}
	return r.CancellationNotice
}

func notFound(err error, code, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusinessf(code, "%s", msg)
	}
	return err
}

func requireAuth(actor domain.Actor) error {
	if !actor.Authenticated() {
		return httperr.ErrBusinessf(domain.CodeNotAuthenticated, "authentication required")
	}
	return nil
}

// guideFor resolves the guide profile of the acting user.
func guideFor(ctx context.Context, repo domain.Repository, actor domain.Actor) (uint, error) {
	if err := requireAuth(actor); err != nil {
		return 0, err
	}
	if !actor.HasRole(models.RoleGuide) {
		return 0, httperr.ErrBusinessf(domain.CodeForbidden, "guide access required")
	}
	id, err := repo.GuideIDForUser(ctx, actor.UserID)
	if err != nil {
		return 0, notFound(err, domain.CodeForbidden, "no guide profile for this account")
	}
	return id, nil
}
