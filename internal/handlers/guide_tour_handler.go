package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

type GuideTourHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache ucBooking.AvailabilityCache
	loc   *time.Location
	debug bool
}

func NewGuideTourHandler(
	db *gorm.DB,
	audit *audit.Dispatcher,
	cache ucBooking.AvailabilityCache,
	loc *time.Location,
	debug bool,
) *GuideTourHandler {
	return &GuideTourHandler{db: db, audit: audit, cache: cache, loc: loc, debug: debug}
}

// --------- Requests ---------

type TourDateRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type CreateTourRequest struct {
	Title               string            `json:"title" binding:"required,max=255"`
	Description         string            `json:"description" binding:"required,max=2000"`
	Location            string            `json:"location" binding:"max=255"`
	Category            string            `json:"category" binding:"max=50"`
	CityID              uint              `json:"city_id" binding:"required"`
	Price               *float64          `json:"price" binding:"required,min=0"`
	Duration            int               `json:"duration" binding:"required,min=1"`
	MaxGroupSize        int               `json:"max_group_size" binding:"required,min=1,max=50"`
	AvailabilityStatus  string            `json:"availability_status" binding:"omitempty,oneof=available unavailable temporarily_unavailable"`
	IsTransportIncluded bool              `json:"is_transport_included"`
	IsFoodIncluded      bool              `json:"is_food_included"`
	TourDates           []TourDateRequest `json:"tour_dates" binding:"required,min=1,dive"`
}

type UpdateTourRequest struct {
	Title               *string  `json:"title" binding:"omitempty,max=255"`
	Description         *string  `json:"description" binding:"omitempty,max=2000"`
	Location            *string  `json:"location" binding:"omitempty,max=255"`
	Category            *string  `json:"category" binding:"omitempty,max=50"`
	CityID              *uint    `json:"city_id"`
	Price               *float64 `json:"price" binding:"omitempty,min=0"`
	Duration            *int     `json:"duration" binding:"omitempty,min=1"`
	MaxGroupSize        *int     `json:"max_group_size" binding:"omitempty,min=1,max=50"`
	AvailabilityStatus  *string  `json:"availability_status" binding:"omitempty,oneof=available unavailable temporarily_unavailable"`
	IsTransportIncluded *bool    `json:"is_transport_included"`
	IsFoodIncluded      *bool    `json:"is_food_included"`
}

type ReplaceTourDatesRequest struct {
	TourDates []TourDateRequest `json:"tour_dates" binding:"required,min=1,dive"`
}

// --------- Handlers ---------

func (h *GuideTourHandler) List(c *gin.Context) {
	guide, ok := h.currentGuide(c)
	if !ok {
		return
	}

	q := h.db.Where("guide_id = ?", guide.ID)

	if status := strings.TrimSpace(c.Query("availability_status")); status != "" {
		q = q.Where("availability_status = ?", status)
	}
	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var tours []models.Tour
	if err := q.
		Preload("City").
		Preload("TourDates").
		Order("id ASC").
		Find(&tours).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.List(c, dto.FromTours(tours))
}

func (h *GuideTourHandler) Create(c *gin.Context) {
	guide, ok := h.currentGuide(c)
	if !ok {
		return
	}

	var req CreateTourRequest
	if !bindJSON(c, &req) {
		return
	}

	fields := validateSlots(req.TourDates)
	if !h.cityExists(req.CityID) {
		fields["city_id"] = "does not exist"
	}
	if len(fields) > 0 {
		httperr.Validation(c, fields)
		return
	}

	status := models.TourAvailable
	if req.AvailabilityStatus != "" {
		status = models.AvailabilityStatus(req.AvailabilityStatus)
	}

	tour := models.Tour{
		GuideID:             guide.ID,
		CityID:              req.CityID,
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		Location:            req.Location,
		Category:            strings.ToLower(strings.TrimSpace(req.Category)),
		Price:               *req.Price,
		Duration:            req.Duration,
		MaxGroupSize:        req.MaxGroupSize,
		AvailabilityStatus:  status,
		IsTransportIncluded: req.IsTransportIncluded,
		IsFoodIncluded:      req.IsFoodIncluded,
		TourDates:           toSlots(req.TourDates),
	}

	if err := h.db.Omit("City", "Guide").Create(&tour).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.record(c, "tour_created", tour.ID, nil)
	h.db.Preload("City").First(&tour, tour.ID)

	httpresp.Created(c, dto.FromTour(tour))
}

func (h *GuideTourHandler) Update(c *gin.Context) {
	tour, ok := h.ownedTour(c)
	if !ok {
		return
	}

	var req UpdateTourRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.CityID != nil {
		if !h.cityExists(*req.CityID) {
			httperr.Validation(c, map[string]string{"city_id": "does not exist"})
			return
		}
		tour.CityID = *req.CityID
	}
	if req.Title != nil {
		tour.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.Location != nil {
		tour.Location = *req.Location
	}
	if req.Category != nil {
		tour.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.Duration != nil {
		tour.Duration = *req.Duration
	}
	if req.MaxGroupSize != nil {
		tour.MaxGroupSize = *req.MaxGroupSize
	}
	if req.AvailabilityStatus != nil {
		tour.AvailabilityStatus = models.AvailabilityStatus(*req.AvailabilityStatus)
	}
	if req.IsTransportIncluded != nil {
		tour.IsTransportIncluded = *req.IsTransportIncluded
	}
	if req.IsFoodIncluded != nil {
		tour.IsFoodIncluded = *req.IsFoodIncluded
	}

	if err := h.db.Omit("City", "Guide", "TourDates").Save(tour).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.invalidate(c, tour.ID)
	h.record(c, "tour_updated", tour.ID, nil)
	h.db.Preload("City").Preload("TourDates").First(tour, tour.ID)

	httpresp.OK(c, dto.FromTour(*tour))
}

// ReplaceDates swaps the weekly schedule. Slots that already carry bookings
// cannot be removed.
func (h *GuideTourHandler) ReplaceDates(c *gin.Context) {
	tour, ok := h.ownedTour(c)
	if !ok {
		return
	}

	var req ReplaceTourDatesRequest
	if !bindJSON(c, &req) {
		return
	}
	if fields := validateSlots(req.TourDates); len(fields) > 0 {
		httperr.Validation(c, fields)
		return
	}

	wanted := map[string]models.TourDate{}
	for _, s := range toSlots(req.TourDates) {
		wanted[slotKey(s)] = s
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.TourDate
		if err := tx.Where("tour_id = ?", tour.ID).Find(&existing).Error; err != nil {
			return err
		}

		for _, s := range existing {
			key := slotKey(s)
			if _, keep := wanted[key]; keep {
				delete(wanted, key)
				continue
			}

			var n int64
			if err := tx.Model(&models.Booking{}).Where("tour_date_id = ?", s.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return httperr.ErrBusinessf("tour_has_bookings",
					"the %s %s-%s slot has bookings and cannot be removed", s.DayOfWeek, s.StartTime, s.EndTime)
			}
			if err := tx.Delete(&models.TourDate{}, s.ID).Error; err != nil {
				return err
			}
		}

		for _, s := range wanted {
			s.TourID = tour.ID
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.invalidate(c, tour.ID)
	h.record(c, "tour_dates_updated", tour.ID, map[string]any{"slots": len(req.TourDates)})
	h.db.Preload("City").Preload("TourDates").First(tour, tour.ID)

	httpresp.OK(c, dto.FromTour(*tour))
}

func (h *GuideTourHandler) Delete(c *gin.Context) {
	tour, ok := h.ownedTour(c)
	if !ok {
		return
	}

	today := timezone.Date(time.Now().In(h.loc))

	var upcoming int64
	if err := h.db.Model(&models.Booking{}).
		Where("tour_id = ? AND status IN ? AND booked_date >= ?",
			tour.ID,
			[]models.BookingStatus{models.BookingPending, models.BookingConfirmed},
			today,
		).
		Count(&upcoming).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	if upcoming > 0 {
		httperr.Respond(c, httperr.ErrBusinessf("tour_has_bookings",
			"%d upcoming bookings must be resolved first", upcoming), h.debug)
		return
	}

	if err := h.db.Delete(&models.Tour{}, tour.ID).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.invalidate(c, tour.ID)
	h.record(c, "tour_deleted", tour.ID, map[string]any{"title": tour.Title})

	httpresp.OK(c, gin.H{"message": "Tour deleted."})
}

// --------- Helpers ---------

func (h *GuideTourHandler) currentGuide(c *gin.Context) (*models.Guide, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var guide models.Guide
	if err := h.db.Where("user_id = ?", userID).First(&guide).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Forbidden(c, "forbidden", "No guide profile for this account.")
			return nil, false
		}
		httperr.Respond(c, err, h.debug)
		return nil, false
	}
	return &guide, true
}

func (h *GuideTourHandler) ownedTour(c *gin.Context) (*models.Tour, bool) {
	guide, ok := h.currentGuide(c)
	if !ok {
		return nil, false
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var tour models.Tour
	if err := h.db.First(&tour, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "tour_not_found", "Tour not found.")
			return nil, false
		}
		httperr.Respond(c, err, h.debug)
		return nil, false
	}
	if tour.GuideID != guide.ID {
		httperr.Forbidden(c, "forbidden", "You are not allowed to manage this tour.")
		return nil, false
	}
	return &tour, true
}

func (h *GuideTourHandler) invalidate(c *gin.Context, tourID uint) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), tourID)
	}
}

func (h *GuideTourHandler) cityExists(id uint) bool {
	var n int64
	h.db.Model(&models.City{}).Where("id = ?", id).Count(&n)
	return n > 0
}

func (h *GuideTourHandler) record(c *gin.Context, action string, tourID uint, meta map[string]any) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "tour",
		EntityID: &tourID,
		Metadata: meta,
	})
}

// validateSlots checks what struct tags cannot: end after start.
func validateSlots(in []TourDateRequest) map[string]string {
	fields := map[string]string{}
	for i, s := range in {
		if s.EndTime <= s.StartTime {
			fields[fmt.Sprintf("tour_dates[%d].end_time", i)] = "must be after start_time"
		}
	}
	return fields
}

func toSlots(in []TourDateRequest) []models.TourDate {
	seen := map[string]bool{}
	out := make([]models.TourDate, 0, len(in))
	for _, s := range in {
		slot := models.TourDate{
			DayOfWeek: strings.ToLower(strings.TrimSpace(s.DayOfWeek)),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
		if seen[slotKey(slot)] {
			continue
		}
		seen[slotKey(slot)] = true
		out = append(out, slot)
	}
	return out
}

func slotKey(s models.TourDate) string {
	return s.DayOfWeek + "|" + s.StartTime + "|" + s.EndTime
}
