package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// Register installs the custom rules on gin's validator and makes field
// errors report json names.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("weekday", validWeekday)
		_ = v.RegisterValidation("hhmm", validHHMM)
		_ = v.RegisterValidation("isodate", validISODate)
	})
}

var days = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

func validWeekday(fl validator.FieldLevel) bool {
	_, ok := days[strings.ToLower(fl.Field().String())]
	return ok
}

func validHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func validISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// FieldErrors flattens binding errors into field → message. ok is false when
// err is not a validation failure (malformed JSON and the like).
func FieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = message(fe)
	}
	return out, true
}

// fieldPath drops the struct name: "CreateBookingRequest.group_size" → "group_size".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "weekday":
		return "must be a day of the week"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	}
	return "is invalid"
}
