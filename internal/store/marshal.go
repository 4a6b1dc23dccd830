package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/streaks/internal/habit"
)

// marshalHabits encodes the whole collection. A nil slice encodes as [] so
// that an emptied collection is not mistaken for a first run.
func marshalHabits(habits []habit.Habit) ([]byte, error) {
	if habits == nil {
		habits = []habit.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return nil, fmt.Errorf("marshal habits: %w", err)
	}
	return data, nil
}

// unmarshalHabits decodes a stored collection. Only a JSON array is
// accepted; any other shape is reported as corrupt.
func unmarshalHabits(data []byte) ([]habit.Habit, error) {
	var habits []habit.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("unmarshal habits: %w", err)
	}
	if habits == nil {
		return nil, fmt.Errorf("unmarshal habits: not a JSON array")
	}
	for i := range habits {
		if habits[i].History == nil {
			habits[i].History = map[string]habit.Grid{}
		}
	}
	return habits, nil
}
