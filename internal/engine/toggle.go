package engine

import "github.com/roach88/streaks/internal/habit"

// applyToggle flips day on h for the week weekKey, or returns h unchanged
// with a TOGGLE_REJECTED error when the day lock refuses it. day must be in
// range.
func applyToggle(h habit.Habit, day int, weekKey string) (habit.Habit, error) {
	days := h.Days
	if !days[day] {
		if d := habit.CanToggle(days, day); !d.Allow {
			return h, habit.NewToggleRejected(h.ID, day, d.Reason)
		}
	}
	days[day] = !days[day]
	streak := habit.LongestRun(days)

	out := h.Clone()
	out.Days = days
	out.Streak = streak
	out.History[weekKey] = days
	// Re-arm as soon as the streak leaves a milestone value.
	out.Congratulated = h.Congratulated && habit.IsMilestone(streak)
	return out, nil
}
