package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: audit}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"max=20"`
	CityID   *uint  `json:"city_id"`

	// Role is traveler unless the account signs up as a guide.
	Role      string   `json:"role" binding:"omitempty,oneof=traveler guide"`
	Languages []string `json:"languages" binding:"omitempty,dive,max=30"`
	Biography string   `json:"biography" binding:"max=2000"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.config.VerifyEmailDomain && !validators.IsEmailDomainValid(email) {
		httperr.Validation(c, map[string]string{"email": "domain does not accept mail"})
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Respond(c, httperr.ErrBusinessf("email_already_used", "an account with this email already exists"), h.config.Debug)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err, h.config.Debug)
		return
	}

	role := models.RoleTraveler
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
		CityID:       req.CityID,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if role != models.RoleGuide {
			return nil
		}

		langs := req.Languages
		if langs == nil {
			langs = []string{}
		}
		raw, err := json.Marshal(langs)
		if err != nil {
			return err
		}
		return tx.Create(&models.Guide{
			UserID:    user.ID,
			Languages: datatypes.JSON(raw),
			Biography: req.Biography,
		}).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			err = httperr.ErrBusinessf("email_already_used", "an account with this email already exists")
		}
		httperr.Respond(c, err, h.config.Debug)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, err, h.config.Debug)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"role": user.Role},
	})

	httpresp.Created(c, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Respond(c, err, h.config.Debug)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, err, h.config.Debug)
		return
	}

	httpresp.OK(c, gin.H{
		"user":  userPayload(&user),
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(h.config.TokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":      u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"role":    u.Role,
		"city_id": u.CityID,
	}
}
