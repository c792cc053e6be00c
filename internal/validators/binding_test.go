package validators

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type slotRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type bookingRequest struct {
	BookedDate string        `json:"booked_date" binding:"required,isodate"`
	GroupSize  int           `json:"group_size" binding:"required,min=1"`
	Slots      []slotRequest `json:"slots" binding:"dive"`
}

func TestCustomRules(t *testing.T) {
	Register()

	ok := bookingRequest{
		BookedDate: "2025-06-02",
		GroupSize:  2,
		Slots:      []slotRequest{{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "12:00"}},
	}
	if err := binding.Validator.ValidateStruct(ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := bookingRequest{
		BookedDate: "02/06/2025",
		GroupSize:  0,
		Slots:      []slotRequest{{DayOfWeek: "funday", StartTime: "9:00", EndTime: "08:00"}},
	}
	err := binding.Validator.ValidateStruct(bad)
	fields, isValidation := FieldErrors(err)
	if !isValidation {
		t.Fatalf("expected validation errors, got %v", err)
	}

	want := map[string]string{
		"booked_date":          "must be a date in YYYY-MM-DD format",
		"group_size":           "is required",
		"slots[0].day_of_week": "must be a day of the week",
		"slots[0].start_time":  "must be a time in HH:MM format",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("%s = %q, want %q (all: %v)", k, fields[k], v, fields)
		}
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if _, ok := FieldErrors(errors.New("unexpected EOF")); ok {
		t.Fatal("plain error reported as validation failure")
	}
}
