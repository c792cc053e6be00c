package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Details any            `json:"details,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Validation reports per-field problems found before any work starts.
func Validation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, HTTPError{
		Code:    "invalid_request",
		Message: "The given data was invalid.",
		Details: fields,
	})
}

// ======================================================
// Business code → HTTP status
// ======================================================

var statusByCode = map[string]int{
	"not_authenticated":   http.StatusUnauthorized,
	"invalid_credentials": http.StatusUnauthorized,
	"forbidden":           http.StatusForbidden,

	"tour_not_found":    http.StatusNotFound,
	"slot_not_found":    http.StatusNotFound,
	"booking_not_found": http.StatusNotFound,
	"user_not_found":    http.StatusNotFound,
	"city_not_found":    http.StatusNotFound,
	"guide_not_found":   http.StatusNotFound,

	"capacity_exceeded":  http.StatusConflict,
	"duplicate_booking":  http.StatusConflict,
	"email_already_used": http.StatusConflict,
	"tour_has_bookings":  http.StatusConflict,

	"tour_unavailable":           http.StatusUnprocessableEntity,
	"slot_mismatch":              http.StatusUnprocessableEntity,
	"past_date":                  http.StatusUnprocessableEntity,
	"invalid_state":              http.StatusUnprocessableEntity,
	"cancellation_window_closed": http.StatusUnprocessableEntity,
	"tour_not_finished":          http.StatusUnprocessableEntity,
	"invalid_group_size":         http.StatusUnprocessableEntity,
	"invalid_status":             http.StatusUnprocessableEntity,
	"invalid_weekday":            http.StatusUnprocessableEntity,
	"cannot_modify_self":         http.StatusUnprocessableEntity,
	"invalid_current_password":   http.StatusUnprocessableEntity,

	"export_unavailable": http.StatusServiceUnavailable,
}

func StatusOf(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusBadRequest
}

// Respond writes err as JSON. Business errors keep their code; anything else
// is logged and surfaced as internal_error, with the cause echoed only in debug.
func Respond(c *gin.Context, err error, debug bool) {
	var be BusinessError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = be.Code
		}
		c.JSON(StatusOf(be.Code), HTTPError{
			Code:    be.Code,
			Message: msg,
			Meta:    be.Meta,
		})
		return
	}

	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"actor_id", c.GetUint("userID"),
		"request_id", c.GetString("requestID"),
		"error", err,
	)

	body := HTTPError{
		Code:    "internal_error",
		Message: "Something went wrong, please try again later.",
	}
	if debug {
		body.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
