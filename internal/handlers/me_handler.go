package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type MeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	debug bool
}

func NewMeHandler(db *gorm.DB, audit *audit.Dispatcher, debug bool) *MeHandler {
	return &MeHandler{db: db, audit: audit, debug: debug}
}

type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Email  string `json:"email" binding:"required,email,max=100"`
	Phone  string `json:"phone" binding:"max=20"`
	CityID *uint  `json:"city_id"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" binding:"required"`
	NewPassword             string `json:"new_password" binding:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" binding:"required,eqfield=NewPassword"`
}

// currentUser loads the caller and writes the 404 itself.
func (h *MeHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.Preload("City").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return nil, false
		}
		httperr.Respond(c, err, h.debug)
		return nil, false
	}
	return &user, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}
	user := *u

	body := gin.H{"user": userPayload(&user)}
	if user.City != nil {
		body["city"] = user.City
	}

	if user.Role == models.RoleGuide {
		var guide models.Guide
		if err := h.db.Where("user_id = ?", user.ID).First(&guide).Error; err == nil {
			guide.User = user
			body["guide"] = dto.FromGuide(guide)
		}
	}

	httpresp.OK(c, body)
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.CityID != nil {
		var n int64
		if err := h.db.Model(&models.City{}).Where("id = ?", *req.CityID).Count(&n).Error; err != nil {
			httperr.Respond(c, err, h.debug)
			return
		}
		if n == 0 {
			httperr.Validation(c, map[string]string{"city_id": "unknown city"})
			return
		}
	}

	var taken int64
	if err := h.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, user.ID).
		Count(&taken).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	if taken > 0 {
		httperr.Respond(c, httperr.ErrBusinessf("email_already_used", "an account with this email already exists"), h.debug)
		return
	}

	updates := map[string]any{
		"name":    strings.TrimSpace(req.Name),
		"email":   email,
		"phone":   req.Phone,
		"city_id": req.CityID,
	}
	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			err = httperr.ErrBusinessf("email_already_used", "an account with this email already exists")
		}
		httperr.Respond(c, err, h.debug)
		return
	}

	user.Name = updates["name"].(string)
	user.Email = email
	user.Phone = req.Phone
	user.CityID = req.CityID

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "profile_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, gin.H{
		"message": "Profile updated.",
		"user":    userPayload(user),
	})
}

func (h *MeHandler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.Respond(c, httperr.ErrBusinessf("invalid_current_password", "current password is incorrect"), h.debug)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	if err := h.db.Model(user).Update("password_hash", string(hashed)).Error; err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "password_changed",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, gin.H{"message": "Password updated."})
}
