package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type TourHandler struct {
	db           *gorm.DB
	availability *ucBooking.GetAvailability
	debug        bool
}

func NewTourHandler(db *gorm.DB, availability *ucBooking.GetAvailability, debug bool) *TourHandler {
	return &TourHandler{db: db, availability: availability, debug: debug}
}

////////////////////////////////////////////////////////
// LIST
////////////////////////////////////////////////////////

// List shows bookable tours. Filters: keyword, city_id, category,
// min_price, max_price.
func (h *TourHandler) List(c *gin.Context) {
	p := pageFrom(c)

	q := h.db.Model(&models.Tour{}).
		Where("availability_status = ?", models.TourAvailable)

	if kw := strings.ToLower(strings.TrimSpace(c.Query("keyword"))); kw != "" {
		like := "%" + kw + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			like, like, like,
		)
	}
	if v := c.Query("city_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			q = q.Where("city_id = ?", id)
		}
	}
	if v := strings.ToLower(strings.TrimSpace(c.Query("category"))); v != "" {
		q = q.Where("LOWER(category) = ?", v)
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		q = q.Where("price >= ?", v)
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		q = q.Where("price <= ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	var tours []models.Tour
	if err := q.
		Preload("City").
		Preload("Guide.User").
		Preload("TourDates").
		Order("created_at DESC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&tours).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.Paginated(c, dto.FromTours(tours), p.Page, p.PerPage, total)
}

////////////////////////////////////////////////////////
// SHOW
////////////////////////////////////////////////////////

func (h *TourHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var tour models.Tour
	if err := h.db.
		Preload("City").
		Preload("Guide.User").
		Preload("TourDates").
		First(&tour, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "tour_not_found", "Tour not found.")
			return
		}
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, dto.FromTour(tour))
}

////////////////////////////////////////////////////////
// DISCOVERY
////////////////////////////////////////////////////////

const discoveryLimit = 10

func (h *TourHandler) discovery() *gorm.DB {
	return h.db.
		Preload("City").
		Preload("Guide.User").
		Preload("TourDates").
		Where("availability_status = ?", models.TourAvailable).
		Limit(discoveryLimit)
}

// Random returns up to ten bookable tours in random order.
func (h *TourHandler) Random(c *gin.Context) {
	var tours []models.Tour
	if err := h.discovery().Order("RANDOM()").Find(&tours).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	httpresp.List(c, dto.FromTours(tours))
}

// Nearby returns bookable tours in the caller's city, or random ones when
// the caller has no city.
func (h *TourHandler) Nearby(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.Select("id", "city_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Respond(c, err, h.debug)
		return
	}
	if user.CityID == nil {
		h.Random(c)
		return
	}

	var tours []models.Tour
	if err := h.discovery().
		Where("city_id = ?", *user.CityID).
		Order("created_at DESC").
		Find(&tours).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	httpresp.List(c, dto.FromTours(tours))
}

////////////////////////////////////////////////////////
// AVAILABLE DATES
////////////////////////////////////////////////////////

func (h *TourHandler) AvailableDates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, gin.H{
		"tour_id":         res.Tour.ID,
		"tour_title":      res.Tour.Title,
		"max_group_size":  res.Tour.MaxGroupSize,
		"from":            res.Window.From.Format("2006-01-02"),
		"to":              res.Window.To.Format("2006-01-02"),
		"available_dates": res.Dates,
	})
}

////////////////////////////////////////////////////////
// GUIDES
////////////////////////////////////////////////////////

// Guides lists guide profiles, best rated first. Filters: search (name),
// verified.
func (h *TourHandler) Guides(c *gin.Context) {
	p := pageFrom(c)

	q := h.db.Model(&models.Guide{}).
		Joins("JOIN users ON users.id = guides.user_id")

	if kw := strings.ToLower(strings.TrimSpace(c.Query("search"))); kw != "" {
		q = q.Where("LOWER(users.name) LIKE ?", "%"+kw+"%")
	}
	if v, err := strconv.ParseBool(c.Query("verified")); err == nil {
		q = q.Where("guides.is_verified = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	var guides []models.Guide
	if err := q.
		Preload("User").
		Order("guides.rating DESC").
		Order("guides.id ASC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&guides).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	out := make([]dto.GuideDTO, 0, len(guides))
	for _, g := range guides {
		out = append(out, dto.FromGuide(g))
	}
	httpresp.Paginated(c, out, p.Page, p.PerPage, total)
}

////////////////////////////////////////////////////////
// GUIDE PROFILE
////////////////////////////////////////////////////////

func (h *TourHandler) Guide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var guide models.Guide
	if err := h.db.Preload("User").First(&guide, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "guide_not_found", "Guide not found.")
			return
		}
		httperr.Respond(c, err, h.debug)
		return
	}

	var tours []models.Tour
	if err := h.db.
		Preload("City").
		Preload("TourDates").
		Where("guide_id = ? AND availability_status = ?", guide.ID, models.TourAvailable).
		Order("created_at DESC").
		Find(&tours).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, gin.H{
		"guide": dto.FromGuide(guide),
		"tours": dto.FromTours(tours),
	})
}
