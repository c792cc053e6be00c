package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

type GuideBookingHandler struct {
	list      *ucBooking.ListGuideBookings
	get       *ucBooking.GetGuideBooking
	accept    *ucBooking.AcceptBooking
	decline   *ucBooking.DeclineBooking
	complete  *ucBooking.CompleteBooking
	stats     *ucBooking.GuideStatistics
	customers *ucBooking.ListGuideCustomers
	export    *ucBooking.ExportGuideBookings
	debug     bool
}

// GuideBookingUseCases groups what the guide dashboard needs.
type GuideBookingUseCases struct {
	List      *ucBooking.ListGuideBookings
	Get       *ucBooking.GetGuideBooking
	Accept    *ucBooking.AcceptBooking
	Decline   *ucBooking.DeclineBooking
	Complete  *ucBooking.CompleteBooking
	Stats     *ucBooking.GuideStatistics
	Customers *ucBooking.ListGuideCustomers
	Export    *ucBooking.ExportGuideBookings
}

func NewGuideBookingHandler(uc GuideBookingUseCases, debug bool) *GuideBookingHandler {
	return &GuideBookingHandler{
		list:      uc.List,
		get:       uc.Get,
		accept:    uc.Accept,
		decline:   uc.Decline,
		complete:  uc.Complete,
		stats:     uc.Stats,
		customers: uc.Customers,
		export:    uc.Export,
		debug:     debug,
	}
}

type DeclineBookingRequest struct {
	Reason string `json:"decline_reason" binding:"max=500"`
}

// ======================================================
// LIST / SHOW
// ======================================================

func (h *GuideBookingHandler) List(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}
	p := pageFrom(c)

	bookings, total, err := h.list.Execute(c.Request.Context(), middleware.ActorFrom(c), f, p)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.Paginated(c, dto.FromBookings(bookings), p.Page, p.PerPage, total)
}

func (h *GuideBookingHandler) Show(c *gin.Context) {
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
// TRANSITIONS
// ======================================================

func (h *GuideBookingHandler) Accept(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.accept.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, gin.H{"message": "Booking confirmed.", "booking": dto.FromBooking(*b)})
}

func (h *GuideBookingHandler) Decline(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// the body is optional
	var req DeclineBookingRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	b, err := h.decline.Execute(c.Request.Context(), middleware.ActorFrom(c), id, strings.TrimSpace(req.Reason))
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, gin.H{"message": "Booking declined.", "booking": dto.FromBooking(*b)})
}

func (h *GuideBookingHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.OK(c, gin.H{"message": "Booking completed.", "booking": dto.FromBooking(*b)})
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *GuideBookingHandler) Statistics(c *gin.Context) {
	stats, err := h.stats.Execute(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}
	httpresp.OK(c, stats)
}

func (h *GuideBookingHandler) Customers(c *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	p := pageFrom(c)

	customers, total, err := h.customers.Execute(c.Request.Context(), middleware.ActorFrom(c), search, p)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.Paginated(c, customers, p.Page, p.PerPage, total)
}

func (h *GuideBookingHandler) Export(c *gin.Context) {
	f, ok := listFilter(c)
	if !ok {
		return
	}

	res, err := h.export.Execute(c.Request.Context(), middleware.ActorFrom(c), f)
	if err != nil {
		httperr.Respond(c, err, h.debug)
		return
	}

	httpresp.Created(c, res)
}
