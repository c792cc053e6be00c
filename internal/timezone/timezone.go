package timezone

import "time"

const DefaultTimezone = "Africa/Casablanca"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Date returns the civil date of t in its own location as UTC midnight,
// the form booked dates are stored in.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO "2006-01-02" date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// At combines a civil date with an "HH:MM" wall time in loc.
func At(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}
