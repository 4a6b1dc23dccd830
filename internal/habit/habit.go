package habit

import "maps"

// DaysPerWeek is the number of cells in a completion grid.
const DaysPerWeek = 7

// Grid is one week of completion marks, Sunday first.
type Grid [DaysPerWeek]bool

// Count returns the number of completed days.
func (g Grid) Count() int {
	n := 0
	for _, done := range g {
		if done {
			n++
		}
	}
	return n
}

// Habit is a single tracked habit.
//
// Days is the grid of the currently selected week. Streak is always
// LongestRun(Days) and is never set independently. History is written through
// on every toggle and read back on week navigation.
//
// Congratulated belongs to the selected week. Celebrated keeps it for every
// week, holding only weeks whose flag is set.
type Habit struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Days          Grid            `json:"days"`
	Streak        int             `json:"streak"`
	History       map[string]Grid `json:"history"`
	Congratulated bool            `json:"congratulated"`
	Celebrated    map[string]bool `json:"celebrated,omitempty"`
}

// Clone returns a deep copy so callers never share the history map.
func (h Habit) Clone() Habit {
	c := h
	if h.History != nil {
		c.History = maps.Clone(h.History)
	} else {
		c.History = map[string]Grid{}
	}
	c.Celebrated = maps.Clone(h.Celebrated)
	return c
}

// CelebratedIn reports whether the milestone of week was already surfaced.
func (h Habit) CelebratedIn(week string) bool {
	return h.Celebrated[week]
}

// SetCelebrated records the congratulated flag for week.
func (h *Habit) SetCelebrated(week string, on bool) {
	if !on {
		delete(h.Celebrated, week)
		if len(h.Celebrated) == 0 {
			h.Celebrated = nil
		}
		return
	}
	if h.Celebrated == nil {
		h.Celebrated = map[string]bool{}
	}
	h.Celebrated[week] = true
}

// CloneAll deep-copies a collection.
func CloneAll(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}

// Progress returns the share of completed days in the grid as a percentage.
func Progress(days Grid) float64 {
	return float64(days.Count()) / DaysPerWeek * 100
}
