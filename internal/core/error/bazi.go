package errx

import (
	"errors"
	"net/http"

	"github.com/bazi-agent/server/internal/bazi"
)

const (
	// InvalidBirthMessage is returned when the birth date or time does not exist.
	InvalidBirthMessage = "invalid birth date or time"
	// UnsupportedBirthMessage is returned for dates outside the calendar table.
	UnsupportedBirthMessage = "birth date outside the supported calendar range"
)

// WrapBazi maps calculator errors to AppError. The field-level detail stays
// in the wrapped error so callers can phrase a corrective prompt.
func WrapBazi(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, bazi.ErrInvalidDate):
		return New(err, http.StatusBadRequest, InvalidBirthMessage)
	case errors.Is(err, bazi.ErrUnsupportedRange):
		return New(err, http.StatusUnprocessableEntity, UnsupportedBirthMessage)
	}
	return Internal(err)
}
