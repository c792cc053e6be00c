package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db    *gorm.DB
	debug bool
}

func NewAuditLogsHandler(db *gorm.DB, debug bool) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, debug: debug}
}

// List filters by action, entity, user_id and a from/to date range.
func (h *AuditLogsHandler) List(c *gin.Context) {
	p := pageFrom(c)

	q := h.db.Model(&models.AuditLog{})

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if v := c.Query("user_id"); v != "" {
		if uid, err := strconv.ParseUint(v, 10, 64); err == nil {
			q = q.Where("user_id = ?", uid)
		}
	}
	if v := c.Query("from"); v != "" {
		if from, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(&logs).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.Paginated(c, logs, p.Page, p.PerPage, total)
}
