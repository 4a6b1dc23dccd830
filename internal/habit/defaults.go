package habit

// Category names used by the default set.
const (
	CategoryHealth         = "Health"
	CategoryPersonalGrowth = "Personal Growth"
)

// DefaultInputs is the canonical first-run habit list, in display order.
var DefaultInputs = []NewHabitInput{
	{Name: "Drink some water", Category: CategoryHealth},
	{Name: "Do morning exercises", Category: CategoryHealth},
	{Name: "Read", Category: CategoryPersonalGrowth},
	{Name: "Meditate", Category: CategoryPersonalGrowth},
	{Name: "Brush and floss", Category: CategoryHealth},
}

// SuggestedCategories are offered by the UI; any non-empty category is
// accepted.
var SuggestedCategories = []string{CategoryHealth, CategoryPersonalGrowth, "Productivity", "Mindfulness", "Fitness"}

// Defaults builds the default habits, drawing one id per habit from nextID.
func Defaults(nextID func() string) []Habit {
	out := make([]Habit, 0, len(DefaultInputs))
	for _, in := range DefaultInputs {
		out = append(out, Habit{
			ID:       nextID(),
			Name:     in.Name,
			Category: in.Category,
			History:  map[string]Grid{},
		})
	}
	return out
}
