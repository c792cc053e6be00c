package handlers

import (
	"errors"
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
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

// onlineWindow is how recent last_activity_at must be to count as online.
const onlineWindow = 5 * time.Minute

type AdminHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache ucBooking.AvailabilityCache
	debug bool
}

func NewAdminHandler(db *gorm.DB, audit *audit.Dispatcher, cache ucBooking.AvailabilityCache, debug bool) *AdminHandler {
	return &AdminHandler{db: db, audit: audit, cache: cache, debug: debug}
}

type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
	Role  *string `json:"role" binding:"omitempty,oneof=traveler guide admin"`
}

type UpdateTourStatusRequest struct {
	AvailabilityStatus string `json:"availability_status" binding:"required,oneof=available unavailable temporarily_unavailable"`
}

// ======================================================
// USERS
// ======================================================

// ListUsers filters by search and by filter=online|guides|admins|travelers.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	p := pageFrom(c)
	onlineSince := time.Now().Add(-onlineWindow)

	q := h.db.Model(&models.User{})
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	switch c.Query("filter") {
	case "online":
		q = q.Where("last_activity_at >= ?", onlineSince)
	case "guides":
		q = q.Where("role = ?", models.RoleGuide)
	case "admins":
		q = q.Where("role = ?", models.RoleAdmin)
	case "travelers":
		q = q.Where("role = ?", models.RoleTraveler)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	var users []models.User
	if err := q.
		Preload("City").
		Order("created_at DESC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&users).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	metrics := gin.H{}
	for name, scope := range map[string]func(*gorm.DB) *gorm.DB{
		"total":  func(db *gorm.DB) *gorm.DB { return db },
		"online": func(db *gorm.DB) *gorm.DB { return db.Where("last_activity_at >= ?", onlineSince) },
		"guides": func(db *gorm.DB) *gorm.DB { return db.Where("role = ?", models.RoleGuide) },
		"admins": func(db *gorm.DB) *gorm.DB { return db.Where("role = ?", models.RoleAdmin) },
	} {
		var n int64
		if err := h.db.Model(&models.User{}).Scopes(scope).Count(&n).Error; err != nil {
			httperr.Respond(c, err, h.debug)
			return
		}
		metrics[name] = n
	}

	if users == nil {
		users = []models.User{}
	}
	httpresp.OK(c, gin.H{
		"data":    users,
		"meta":    httpresp.NewPageMeta(p.Page, p.PerPage, total, len(users)),
		"metrics": metrics,
	})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	adminID := c.MustGet(middleware.ContextUserID).(uint)
	if id == adminID && req.Role != nil && models.Role(*req.Role) != models.RoleAdmin {
		httperr.Respond(c, httperr.ErrBusinessf("cannot_modify_self", "you cannot change your own role"), h.debug)
		return
	}

	var user models.User
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Role != nil {
			user.Role = models.Role(*req.Role)
		}
		if err := tx.Omit("City").Save(&user).Error; err != nil {
			return err
		}

		// promoting to guide needs a profile for tours to hang off
		if user.Role == models.RoleGuide {
			return tx.Where(models.Guide{UserID: user.ID}).
				Attrs(models.Guide{Languages: []byte("[]")}).
				FirstOrCreate(&models.Guide{}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Respond(c, err, h.debug)
		return
	}

	h.record(c, "user_updated", "user", user.ID, map[string]any{"role": user.Role})
	httpresp.OK(c, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if id == c.MustGet(middleware.ContextUserID).(uint) {
		httperr.Respond(c, httperr.ErrBusinessf("cannot_modify_self", "you cannot delete your own account"), h.debug)
		return
	}

	res := h.db.Delete(&models.User{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error, h.debug)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	h.record(c, "user_deleted", "user", id, nil)
	httpresp.OK(c, gin.H{"message": "User deleted."})
}

// ======================================================
// TOURS
// ======================================================

func (h *AdminHandler) ListTours(c *gin.Context) {
	p := pageFrom(c)

	q := h.db.Model(&models.Tour{})
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}
	if st := c.Query("availability_status"); st != "" {
		q = q.Where("availability_status = ?", st)
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

	type statusCount struct {
		AvailabilityStatus string
		N                  int64
	}
	var counts []statusCount
	if err := h.db.Model(&models.Tour{}).
		Select("availability_status, COUNT(*) AS n").
		Group("availability_status").
		Scan(&counts).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	metrics := gin.H{
		string(models.TourAvailable):              int64(0),
		string(models.TourUnavailable):            int64(0),
		string(models.TourTemporarilyUnavailable): int64(0),
	}
	var all int64
	for _, sc := range counts {
		metrics[sc.AvailabilityStatus] = sc.N
		all += sc.N
	}
	metrics["total"] = all

	out := dto.FromTours(tours)
	httpresp.OK(c, gin.H{
		"data":    out,
		"meta":    httpresp.NewPageMeta(p.Page, p.PerPage, total, len(out)),
		"metrics": metrics,
	})
}

func (h *AdminHandler) UpdateTourStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateTourStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	res := h.db.Model(&models.Tour{}).
		Where("id = ?", id).
		Update("availability_status", req.AvailabilityStatus)
	if res.Error != nil {
		httperr.Respond(c, res.Error, h.debug)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "tour_not_found", "Tour not found.")
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), id)
	}
	h.record(c, "tour_status_changed", "tour", id, map[string]any{"availability_status": req.AvailabilityStatus})

	httpresp.OK(c, gin.H{"id": id, "availability_status": req.AvailabilityStatus})
}

func (h *AdminHandler) record(c *gin.Context, action, entity string, id uint, meta map[string]any) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   entity,
		EntityID: &id,
		Metadata: meta,
	})
}
