package httperr

import (
	"errors"
	"fmt"
)

type BusinessError struct {
	Code    string
	Message string
	Meta    map[string]any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessf(code, format string, args ...any) error {
	return BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMeta attaches response metadata (remaining spots and the like).
func WithMeta(err error, meta map[string]any) error {
	var be BusinessError
	if !errors.As(err, &be) {
		return err
	}
	be.Meta = meta
	return be
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code of err, or "" for anything else.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
