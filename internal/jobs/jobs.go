package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
)

// reminderHorizon is how far ahead a pending booking counts as urgent.
const reminderHorizon = 2

type PendingLister interface {
	ListPendingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

// PendingReminder flags bookings that are still waiting on the guide and
// run within the next couple of days.
type PendingReminder struct {
	repo  PendingLister
	audit *audit.Dispatcher
	loc   *time.Location
	now   func() time.Time
}

func NewPendingReminder(repo PendingLister, audit *audit.Dispatcher, loc *time.Location) *PendingReminder {
	if loc == nil {
		loc = time.UTC
	}
	return &PendingReminder{repo: repo, audit: audit, loc: loc, now: time.Now}
}

// Run returns how many bookings were flagged.
func (j *PendingReminder) Run(ctx context.Context) (int, error) {
	today := timezone.Date(j.now().In(j.loc))
	until := today.AddDate(0, 0, reminderHorizon)

	pending, err := j.repo.ListPendingBetween(ctx, today, until)
	if err != nil {
		return 0, fmt.Errorf("list pending bookings: %w", err)
	}

	for _, b := range pending {
		id := b.ID
		slog.Info("booking awaiting guide response",
			"booking_id", b.ID,
			"reference", domain.Reference(b.ID),
			"tour_id", b.TourID,
			"guide_id", b.Tour.GuideID,
			"booked_date", b.BookedDate.Format("2006-01-02"),
		)
		j.audit.Dispatch(audit.Event{
			Action:   "booking_pending_reminder",
			Entity:   "booking",
			EntityID: &id,
			Metadata: map[string]any{
				"guide_id":    b.Tour.GuideID,
				"booked_date": b.BookedDate.Format("2006-01-02"),
			},
		})
	}
	return len(pending), nil
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{cron: cron.New(cron.WithLocation(loc))}
}

// AddPendingReminder schedules j on a standard five-field cron spec.
func (s *Scheduler) AddPendingReminder(spec string, j *PendingReminder) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := j.Run(ctx)
		if err != nil {
			slog.Error("pending reminder job failed", "error", err)
			return
		}
		slog.Info("pending reminder job finished", "flagged", n)
	})
	if err != nil {
		return fmt.Errorf("schedule pending reminder %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
