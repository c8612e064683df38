package bazi

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnsupportedRange = errors.New("unsupported calendar range")
)

// InvalidDateError reports a civil date or time that does not exist.
// Field names the offending component (year, month, day, hour, minute).
type InvalidDateError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

// Is matches ErrInvalidDate.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// UnsupportedRangeError reports a valid Gregorian date that falls outside
// the span covered by the ephemeris table.
type UnsupportedRangeError struct {
	Year, Month, Day int
}

func (e *UnsupportedRangeError) Error() string {
	return fmt.Sprintf("date %04d-%02d-%02d is outside the supported range %d..%d",
		e.Year, e.Month, e.Day, MinYear, MaxYear)
}

// Is matches ErrUnsupportedRange.
func (e *UnsupportedRangeError) Is(target error) bool {
	return target == ErrUnsupportedRange
}
