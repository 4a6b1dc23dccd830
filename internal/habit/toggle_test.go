package habit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanToggle_LockedByLaterDay(t *testing.T) {
	days := grid(F, F, T, F, F, F, F)

	d := CanToggle(days, 0)
	assert.False(t, d.Allow)
	assert.Equal(t, SkippedDayReason, d.Reason)

	assert.False(t, CanToggle(days, 1).Allow)
	assert.True(t, CanToggle(days, 3).Allow, "no later day is marked")
	assert.True(t, CanToggle(days, 6).Allow)
}

func TestCanToggle_UnmarkAlwaysAllowed(t *testing.T) {
	days := grid(T, T, T, F, F, F, F)
	d := CanToggle(days, 1)
	assert.True(t, d.Allow)
	assert.Empty(t, d.Reason)

	days = grid(T, F, F, F, F, F, T)
	assert.True(t, CanToggle(days, 0).Allow)
}

func TestCanToggle_EmptyGrid(t *testing.T) {
	for day := 0; day < DaysPerWeek; day++ {
		assert.True(t, CanToggle(Grid{}, day).Allow, "day %d", day)
	}
}

func TestCheckDay(t *testing.T) {
	for day := 0; day < DaysPerWeek; day++ {
		assert.NoError(t, CheckDay(day))
	}
	for _, day := range []int{-1, 7, 100} {
		err := CheckDay(day)
		require.Error(t, err)
		assert.True(t, IsRangeError(err))
	}
}
