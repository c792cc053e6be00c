package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type CityHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	debug bool
}

func NewCityHandler(db *gorm.DB, audit *audit.Dispatcher, debug bool) *CityHandler {
	return &CityHandler{db: db, audit: audit, debug: debug}
}

type CityRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Country string `json:"country" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
}

type UpdateCityRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Country *string `json:"country" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,max=100"`
}

type cityRow struct {
	models.City
	ToursCount int64 `json:"tours_count"`
}

// List is the public city picker.
func (h *CityHandler) List(c *gin.Context) {
	q := h.db.Model(&models.City{})
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+s+"%")
	}

	var cities []models.City
	if err := q.Order("name ASC").Find(&cities).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.List(c, cities)
}

// AdminList adds tour counts and pagination.
func (h *CityHandler) AdminList(c *gin.Context) {
	p := pageFrom(c)

	q := h.db.Model(&models.City{})
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(cities.name) LIKE ? OR LOWER(cities.country) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	var rows []cityRow
	if err := q.
		Select("cities.*, (SELECT COUNT(*) FROM tours WHERE tours.city_id = cities.id) AS tours_count").
		Order("cities.name ASC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.Paginated(c, rows, p.Page, p.PerPage, total)
}

func (h *CityHandler) Create(c *gin.Context) {
	var req CityRequest
	if !bindJSON(c, &req) {
		return
	}

	city := models.City{
		Name:    strings.TrimSpace(req.Name),
		Country: strings.TrimSpace(req.Country),
		State:   strings.TrimSpace(req.State),
	}
	if err := h.db.Create(&city).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.record(c, "city_created", city.ID)
	httpresp.Created(c, city)
}

func (h *CityHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var city models.City
	if err := h.db.First(&city, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "city_not_found", "City not found.")
			return
		}
		httperr.Respond(c, err, h.debug)
		return
	}

	var req UpdateCityRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		city.Name = strings.TrimSpace(*req.Name)
	}
	if req.Country != nil {
		city.Country = strings.TrimSpace(*req.Country)
	}
	if req.State != nil {
		city.State = strings.TrimSpace(*req.State)
	}

	if err := h.db.Save(&city).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.record(c, "city_updated", city.ID)
	httpresp.OK(c, city)
}

func (h *CityHandler) record(c *gin.Context, action string, cityID uint) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "city",
		EntityID: &cityID,
	})
}
