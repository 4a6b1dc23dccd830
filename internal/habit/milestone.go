package habit

import "fmt"

// MilestoneInterval is the streak length that earns a notice.
const MilestoneInterval = 7

// Milestone describes one streak crossing found by DetectMilestones.
type Milestone struct {
	HabitID   string `json:"habit_id"`
	HabitName string `json:"habit_name"`
	Streak    int    `json:"streak"`
	Message   string `json:"message"`
}

// IsMilestone reports whether streak is a positive multiple of the interval.
func IsMilestone(streak int) bool {
	return streak > 0 && streak%MilestoneInterval == 0
}

// MilestoneMessage formats the congratulatory notice.
func MilestoneMessage(streak int, name string) string {
	return fmt.Sprintf("Congratulations! You've reached %d days streak for \"%s\"!", streak, name)
}

// DetectMilestones marks every habit that sits on an unannounced milestone
// as congratulated and returns the crossings in collection order. The slice
// is modified in place.
func DetectMilestones(habits []Habit) []Milestone {
	var found []Milestone
	for i := range habits {
		h := &habits[i]
		if !IsMilestone(h.Streak) || h.Congratulated {
			continue
		}
		h.Congratulated = true
		found = append(found, Milestone{
			HabitID:   h.ID,
			HabitName: h.Name,
			Streak:    h.Streak,
			Message:   MilestoneMessage(h.Streak, h.Name),
		})
	}
	return found
}
