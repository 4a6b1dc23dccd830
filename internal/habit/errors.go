package habit

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes habit errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates a required field was empty.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeToggleRejected indicates the day lock refused a toggle. This is a
	// normal negative result, shown to the user as a notice.
	ErrCodeToggleRejected ErrorCode = "TOGGLE_REJECTED"

	// ErrCodeDayOutOfRange indicates a day index outside [0, 6].
	ErrCodeDayOutOfRange ErrorCode = "DAY_OUT_OF_RANGE"

	// ErrCodeNotFound indicates no habit matched the given reference.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error is the single error type returned by habit rules and the engine.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// HabitID identifies the affected habit, when known.
	HabitID string

	// Field names the offending input field (validation only).
	Field string

	// Day is the offending day index (toggle and range errors).
	Day int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.HabitID != "" {
		return fmt.Sprintf("%s: %s (habit=%s)", e.Code, e.Message, e.HabitID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports an empty or invalid input field.
func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrCodeValidation, Field: field, Message: message}
}

// NewToggleRejected reports a day-lock refusal.
func NewToggleRejected(habitID string, day int, reason string) *Error {
	return &Error{Code: ErrCodeToggleRejected, HabitID: habitID, Day: day, Message: reason}
}

// NewRangeError reports a day index outside the week.
func NewRangeError(day int) *Error {
	return &Error{
		Code:    ErrCodeDayOutOfRange,
		Day:     day,
		Message: fmt.Sprintf("day index %d outside [0, %d]", day, DaysPerWeek-1),
	}
}

// NewNotFoundError reports an unknown habit reference.
func NewNotFoundError(ref string) *Error {
	return &Error{Code: ErrCodeNotFound, HabitID: ref, Message: "habit not found"}
}

// CodeOf returns the code of a wrapped *Error, or "" for other errors.
func CodeOf(err error) ErrorCode {
	var he *Error
	if errors.As(err, &he) {
		return he.Code
	}
	return ""
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsToggleRejected reports whether err is a day-lock refusal.
func IsToggleRejected(err error) bool { return CodeOf(err) == ErrCodeToggleRejected }

// IsRangeError reports whether err is an out-of-range day index.
func IsRangeError(err error) bool { return CodeOf(err) == ErrCodeDayOutOfRange }

// IsNotFound reports whether err is an unknown habit reference.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }
