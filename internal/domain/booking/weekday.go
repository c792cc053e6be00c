package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
)

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range weekdays {
		if d == w {
			return w, nil
		}
	}
	return "", httperr.ErrBusinessf("invalid_weekday", "unknown day of week %q", s)
}

func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

func (w Weekday) Time() time.Weekday {
	for i, d := range weekdays {
		if d == w {
			return time.Weekday(i)
		}
	}
	return -1
}
