package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// bindJSON binds the body into dst and writes the 4xx itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if fields, ok := validators.FieldErrors(err); ok {
			httperr.Validation(c, fields)
			return false
		}
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid identifier.")
		return 0, false
	}
	return uint(id), true
}

func pageFrom(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return domain.Page{Page: page, PerPage: perPage}
}

// listFilter reads status, date_from and date_to. Bad values produce a 422.
func listFilter(c *gin.Context) (domain.ListFilter, bool) {
	var f domain.ListFilter
	fields := map[string]string{}

	if s := c.Query("status"); s != "" {
		st, err := domain.ParseStatus(s)
		if err != nil {
			fields["status"] = "must be one of pending, confirmed, cancelled, completed"
		}
		f.Status = st
	}

	parse := func(key string) *time.Time {
		v := c.Query(key)
		if v == "" {
			return nil
		}
		d, err := timezone.ParseDate(v)
		if err != nil {
			fields[key] = "must be a date (YYYY-MM-DD)"
			return nil
		}
		return &d
	}
	f.DateFrom = parse("date_from")
	f.DateTo = parse("date_to")

	if len(fields) > 0 {
		httperr.Validation(c, fields)
		return f, false
	}
	return f, true
}
