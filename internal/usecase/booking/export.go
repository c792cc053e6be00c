package booking

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type ExportResult struct {
	URL   string `json:"url"`
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type ExportGuideBookings struct {
	repo     domain.Repository
	exporter Exporter
	audit    *audit.Dispatcher
}

// NewExportGuideBookings accepts a nil exporter; Execute then reports the
// feature as unavailable.
func NewExportGuideBookings(repo domain.Repository, exporter Exporter, audit *audit.Dispatcher) *ExportGuideBookings {
	return &ExportGuideBookings{repo: repo, exporter: exporter, audit: audit}
}

var exportHeader = []string{
	"reference", "booked_date", "start_time", "end_time", "tour",
	"customer", "email", "group_size", "total_price", "status",
}

func (uc *ExportGuideBookings) Execute(ctx context.Context, actor domain.Actor, f domain.ListFilter) (*ExportResult, error) {
	guideID, err := guideFor(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}
	if uc.exporter == nil {
		return nil, httperr.ErrBusinessf("export_unavailable", "exports are not configured")
	}

	rows, err := uc.repo.ListGuideBookingsForExport(ctx, guideID, f)
	if err != nil {
		return nil, err
	}

	body, err := bookingsCSV(rows)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/guides/%d/bookings-%s.csv", guideID, uuid.NewString())
	url, err := uc.exporter.Upload(ctx, key, "text/csv", body)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "bookings_exported",
		Entity:   "guide",
		EntityID: &guideID,
		Metadata: map[string]any{"key": key, "count": len(rows)},
	})
	slog.Info("bookings exported", "actor_id", actor.UserID, "guide_id", guideID, "count", len(rows))

	return &ExportResult{URL: url, Key: key, Count: len(rows)}, nil
}

func bookingsCSV(rows []models.Booking) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, b := range rows {
		rec := []string{
			domain.Reference(b.ID),
			b.BookedDate.Format("2006-01-02"),
			b.TourDate.StartTime,
			b.TourDate.EndTime,
			b.Tour.Title,
			b.User.Name,
			b.User.Email,
			strconv.Itoa(b.GroupSize),
			strconv.FormatFloat(b.TotalPrice, 'f', 2, 64),
			string(b.Status),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
