package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create *ucBooking.CreateBooking
	cancel *ucBooking.CancelBooking
	list   *ucBooking.ListUserBookings
	get    *ucBooking.GetUserBooking
	debug  bool
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	cancel *ucBooking.CancelBooking,
	list *ucBooking.ListUserBookings,
	get *ucBooking.GetUserBooking,
	debug bool,
) *BookingHandler {
	return &BookingHandler{
		create: create,
		cancel: cancel,
		list:   list,
		get:    get,
		debug:  debug,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	TourID          uint   `json:"tour_id" binding:"required"`
	TourDateID      uint   `json:"tour_date_id" binding:"required"`
	BookedDate      string `json:"booked_date" binding:"required,isodate"`
	GroupSize       int    `json:"group_size" binding:"required,min=1"`
	SpecialRequests string `json:"special_requests" binding:"max=1000"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := timezone.ParseDate(req.BookedDate)
	if err != nil {
		httperr.Validation(c, map[string]string{"booked_date": "must be a date (YYYY-MM-DD)"})
		return
	}

	actor := middleware.ActorFrom(c)
	b, err := h.create.Execute(c.Request.Context(), actor, ucBooking.CreateBookingInput{
		TourID:          req.TourID,
		TourDateID:      req.TourDateID,
		BookedDate:      date,
		GroupSize:       req.GroupSize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		if httperr.CodeOf(err) == "" {
			slog.Error("create booking failed",
				"actor_id", actor.UserID,
				"tour_id", req.TourID,
				"tour_date_id", req.TourDateID,
				"booked_date", req.BookedDate,
				"group_size", req.GroupSize,
				"error", err,
			)
		}
		httperr.Respond(c, err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully.",
		"booking": dto.FromBooking(*b),
	})
}

// ======================================================
// LIST / SHOW
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}

	bookings, err := h.list.Execute(c.Request.Context(), middleware.ActorFrom(c), f)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.List(c, dto.FromBookings(bookings))
}

func (h *BookingHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, dto.FromBooking(*b))
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Booking cancelled.",
		"booking": dto.FromBooking(*b),
	})
}
