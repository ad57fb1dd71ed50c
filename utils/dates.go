package utils

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar dates.
const DayFormat = "2006-01-02"

// Validation error codes surfaced to clients alongside the message.
const (
	CodeMalformedDate = "malformed_date"
	CodeInvalidRange  = "invalid_range"
	CodePastDate      = "past_date"
)

// ValidationError is a recoverable, caller-facing input error.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Day truncates a timestamp to its calendar date at midnight UTC. All
// booking and analytics dates are stored in this normalized form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses external free-text input as a calendar date.
func ParseDay(field, value string) (time.Time, *ValidationError) {
	t, err := time.Parse(DayFormat, value)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   field,
			Code:    CodeMalformedDate,
			Message: fmt.Sprintf("%q is not a valid date, expected YYYY-MM-DD", value),
		}
	}
	return Day(t), nil
}

// ValidateRange checks a candidate [checkIn, checkOut) range for a new
// booking. Zero-length ranges are invalid, and check-in must not be in the
// past relative to today.
func ValidateRange(checkIn, checkOut, today time.Time) *ValidationError {
	if !checkIn.Before(checkOut) {
		return &ValidationError{
			Field:   "checkOut",
			Code:    CodeInvalidRange,
			Message: "check-out date must be after check-in date",
		}
	}
	if checkIn.Before(Day(today)) {
		return &ValidationError{
			Field:   "checkIn",
			Code:    CodePastDate,
			Message: "check-in date cannot be in the past",
		}
	}
	return nil
}

// RangesOverlap reports whether two half-open [start, end) ranges
// intersect. Ranges that only touch at a boundary do not overlap, so a
// checkout day can double as the next guest's checkin day.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// MonthWindow returns the first and last calendar day of a month. The last
// day is computed by normalizing day zero of the following month, which
// keeps leap years correct.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// MaxDay and MinDay clip ranges for display.
func MaxDay(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func MinDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
