package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// TouchActivity stamps last_activity_at, at most once a minute per user.
// Admins read it to list who is online.
func TouchActivity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		actor := ActorFrom(c)
		if !actor.Authenticated() {
			return
		}

		now := time.Now()
		if err := db.WithContext(c.Request.Context()).
			Model(&models.User{}).
			Where("id = ? AND (last_activity_at IS NULL OR last_activity_at < ?)", actor.UserID, now.Add(-time.Minute)).
			Update("last_activity_at", now).Error; err != nil {
			slog.Warn("touch activity failed", "actor_id", actor.UserID, "error", err)
		}
	}
}
