package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/handlers"
	"github.com/BruksfildServices01/tour-booking/internal/infra/cache"
	"github.com/BruksfildServices01/tour-booking/internal/infra/export"
	infraRepo "github.com/BruksfildServices01/tour-booking/internal/infra/repository"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

// Services are the singletons shared by the HTTP layer and background jobs.
type Services struct {
	Repo     *infraRepo.BookingGormRepository
	Audit    *audit.Dispatcher
	Cache    *cache.AvailabilityCache
	Exporter ucBooking.Exporter
	Rules    ucBooking.Rules
}

func NewServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	svc := &Services{
		Repo:  infraRepo.NewBookingGormRepository(db),
		Audit: audit.NewDispatcher(audit.New(db)),
		Cache: cache.NewAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL),
		Rules: ucBooking.Rules{
			Location:           timezone.Location(cfg.Timezone),
			WindowMonths:       cfg.AvailabilityWindowMonths,
			CancellationNotice: cfg.CancellationNotice,
			Now:                time.Now,
		},
	}

	// a typed nil would defeat the exporter check in the use case
	if exp := export.NewS3Exporter(cfg); exp != nil {
		svc.Exporter = exp
	}

	return svc, nil
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, svc *Services) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🧠 USE CASES: BOOKINGS
	// ======================================================
	repo := svc.Repo
	rules := svc.Rules

	getAvailabilityUC := ucBooking.NewGetAvailability(repo, svc.Cache, rules)
	createBookingUC := ucBooking.NewCreateBooking(repo, svc.Audit, svc.Cache, rules)
	cancelBookingUC := ucBooking.NewCancelBooking(repo, svc.Audit, svc.Cache, rules)
	listUserBookingsUC := ucBooking.NewListUserBookings(repo)
	getUserBookingUC := ucBooking.NewGetUserBooking(repo)

	guideUC := handlers.GuideBookingUseCases{
		List:      ucBooking.NewListGuideBookings(repo),
		Get:       ucBooking.NewGetGuideBooking(repo),
		Accept:    ucBooking.NewAcceptBooking(repo, svc.Audit, rules),
		Decline:   ucBooking.NewDeclineBooking(repo, svc.Audit, svc.Cache, rules),
		Complete:  ucBooking.NewCompleteBooking(repo, svc.Audit, rules),
		Stats:     ucBooking.NewGuideStatistics(repo, rules),
		Customers: ucBooking.NewListGuideCustomers(repo),
		Export:    ucBooking.NewExportGuideBookings(repo, svc.Exporter, svc.Audit),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, svc.Audit)
	meHandler := handlers.NewMeHandler(db, svc.Audit, cfg.Debug)
	cityHandler := handlers.NewCityHandler(db, svc.Audit, cfg.Debug)
	tourHandler := handlers.NewTourHandler(db, getAvailabilityUC, cfg.Debug)
	guideTourHandler := handlers.NewGuideTourHandler(db, svc.Audit, svc.Cache, rules.Location, cfg.Debug)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		listUserBookingsUC,
		getUserBookingUC,
		cfg.Debug,
	)
	guideBookingHandler := handlers.NewGuideBookingHandler(guideUC, cfg.Debug)

	adminHandler := handlers.NewAdminHandler(db, svc.Audit, svc.Cache, cfg.Debug)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, cfg.Debug)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/cities", cityHandler.List)
		api.GET("/tours", tourHandler.List)
		api.GET("/tours/random", tourHandler.Random)
		api.GET("/tours/:id", tourHandler.Show)
		api.GET("/tours/:id/available-dates", tourHandler.AvailableDates)
		api.GET("/guides", tourHandler.Guides)
		api.GET("/guides/:id", tourHandler.Guide)

		// ------------------------------
		// 🔐 AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.TouchActivity(db), middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateProfile)
			secured.PUT("/me/password", meHandler.ChangePassword)
			secured.GET("/tours/nearby", tourHandler.Nearby)

			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Show)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
		}

		// ------------------------------
		// 🧭 GUIDE
		// ------------------------------
		guide := secured.Group("/guide")
		guide.Use(middleware.RequireRole(models.RoleGuide))
		{
			guide.GET("/tours", guideTourHandler.List)
			guide.POST("/tours", guideTourHandler.Create)
			guide.PATCH("/tours/:id", guideTourHandler.Update)
			guide.PUT("/tours/:id/dates", guideTourHandler.ReplaceDates)
			guide.DELETE("/tours/:id", guideTourHandler.Delete)

			guide.GET("/bookings", guideBookingHandler.List)
			guide.GET("/bookings/statistics", guideBookingHandler.Statistics)
			guide.POST("/bookings/export", guideBookingHandler.Export)
			guide.GET("/bookings/:id", guideBookingHandler.Show)
			guide.PATCH("/bookings/:id/accept", guideBookingHandler.Accept)
			guide.PATCH("/bookings/:id/decline", guideBookingHandler.Decline)
			guide.PATCH("/bookings/:id/complete", guideBookingHandler.Complete)

			guide.GET("/customers", guideBookingHandler.Customers)
		}

		// ------------------------------
		// 🛡️ ADMIN
		// ------------------------------
		admin := secured.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/cities", cityHandler.AdminList)
			admin.POST("/cities", cityHandler.Create)
			admin.PATCH("/cities/:id", cityHandler.Update)

			admin.GET("/tours", adminHandler.ListTours)
			admin.PATCH("/tours/:id/status", adminHandler.UpdateTourStatus)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
