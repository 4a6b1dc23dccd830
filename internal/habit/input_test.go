package habit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	h, err := New("id-1", NewHabitInput{Name: "  Journal ", Category: " Mindfulness"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", h.ID)
	assert.Equal(t, "Journal", h.Name)
	assert.Equal(t, "Mindfulness", h.Category)
	assert.Equal(t, Grid{}, h.Days)
	assert.Zero(t, h.Streak)
	assert.NotNil(t, h.History)
	assert.Empty(t, h.History)
	assert.False(t, h.Congratulated)
}

func TestNew_RequiresFields(t *testing.T) {
	tests := []struct {
		name  string
		in    NewHabitInput
		field string
	}{
		{"empty name", NewHabitInput{Name: "", Category: "Health"}, "name"},
		{"blank name", NewHabitInput{Name: "   ", Category: "Health"}, "name"},
		{"empty category", NewHabitInput{Name: "Read", Category: ""}, "category"},
		{"blank category", NewHabitInput{Name: "Read", Category: "\t"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("id", tt.in)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var he *Error
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.field, he.Field)
		})
	}
}

func TestNormalize_NFC(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9.
	in := NewHabitInput{Name: "Cafe\u0301", Category: "Health"}
	assert.Equal(t, "Caf\u00e9", in.Normalize().Name)
}

func TestDefaults(t *testing.T) {
	n := 0
	habits := Defaults(func() string {
		n++
		return string(rune('a' + n - 1))
	})

	require.Len(t, habits, 5)
	names := make([]string, len(habits))
	for i, h := range habits {
		names[i] = h.Name
		assert.Equal(t, Grid{}, h.Days)
		assert.Empty(t, h.History)
		assert.NotEmpty(t, h.ID)
		assert.Contains(t, []string{CategoryHealth, CategoryPersonalGrowth}, h.Category)
	}
	assert.Equal(t, []string{"Drink some water", "Do morning exercises", "Read", "Meditate", "Brush and floss"}, names)
}

func TestClone_DeepCopiesHistory(t *testing.T) {
	h := Habit{ID: "a", History: map[string]Grid{"2026-10-18": {true}}}
	c := h.Clone()
	c.History["2026-10-18"] = Grid{}
	assert.True(t, h.History["2026-10-18"][0])

	empty := Habit{}.Clone()
	assert.NotNil(t, empty.History)
}

func TestErrorHelpers(t *testing.T) {
	err := NewToggleRejected("a", 0, SkippedDayReason)
	assert.True(t, IsToggleRejected(err))
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "TOGGLE_REJECTED")
	assert.Contains(t, err.Error(), "habit=a")

	assert.True(t, IsNotFound(NewNotFoundError("x")))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}
