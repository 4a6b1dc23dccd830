package habit

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var inputValidate = validator.New()

// NewHabitInput is the user-supplied part of a new habit.
type NewHabitInput struct {
	Name     string `validate:"required"`
	Category string `validate:"required"`
}

// Normalize trims surrounding whitespace and applies NFC so that visually
// identical names compare equal.
func (in NewHabitInput) Normalize() NewHabitInput {
	return NewHabitInput{
		Name:     norm.NFC.String(strings.TrimSpace(in.Name)),
		Category: norm.NFC.String(strings.TrimSpace(in.Category)),
	}
}

// Validate normalizes the input and returns a VALIDATION error naming the
// first empty field.
func (in NewHabitInput) Validate() (NewHabitInput, error) {
	n := in.Normalize()
	if err := inputValidate.Struct(n); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			field := strings.ToLower(fieldErrs[0].Field())
			return n, NewValidationError(field, field+" is required")
		}
		return n, NewValidationError("", err.Error())
	}
	return n, nil
}

// New builds a blank habit with the given id after validating the input.
func New(id string, in NewHabitInput) (Habit, error) {
	n, err := in.Validate()
	if err != nil {
		return Habit{}, err
	}
	return Habit{
		ID:       id,
		Name:     n.Name,
		Category: n.Category,
		History:  map[string]Grid{},
	}, nil
}
