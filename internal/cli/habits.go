package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/streaks/internal/habit"
)

// HabitView is the JSON form of a habit in the selected week.
type HabitView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Days          habit.Grid `json:"days"`
	Streak        int        `json:"streak"`
	Progress      float64    `json:"progress"`
	Congratulated bool       `json:"congratulated"`
}

// WeekView is the JSON payload of list, week and the reset commands.
type WeekView struct {
	Week      string      `json:"week"`
	Range     string      `json:"range"`
	Current   bool        `json:"current"`
	Habits    []HabitView `json:"habits"`
	Milestone string      `json:"milestone,omitempty"`
}

// HabitResult is the JSON payload of add, delete and toggle.
type HabitResult struct {
	Habit     HabitView `json:"habit"`
	Deleted   bool      `json:"deleted,omitempty"`
	Milestone string    `json:"milestone,omitempty"`
}

func viewOf(h habit.Habit) HabitView {
	return HabitView{
		ID:            h.ID,
		Name:          h.Name,
		Category:      h.Category,
		Days:          h.Days,
		Streak:        h.Streak,
		Progress:      habit.Progress(h.Days),
		Congratulated: h.Congratulated,
	}
}

func weekView(app *App, habits []habit.Habit) WeekView {
	selected := app.Engine.SelectedDate()
	views := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, viewOf(h))
	}
	return WeekView{
		Week:      habit.WeekKey(selected),
		Range:     habit.WeekRange(selected),
		Current:   habit.IsCurrentWeek(selected, app.Clock.Now()),
		Habits:    views,
		Milestone: app.Milestone(),
	}
}

// outputWeek prints the habit table for the selected week.
func outputWeek(app *App, f *OutputFormatter, habits []habit.Habit) error {
	if f.Format == "json" {
		return f.Success(weekView(app, habits))
	}
	return f.Success(renderHabits(habits, app.Engine.SelectedDate(), app.Clock.Now()))
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show habits for the selected week",
		Long: `Show every habit with its grid, streak and completion for the selected
week (the current week unless --week is given).

Examples:
  streaks list
  streaks list --week 2026-10-01
  streaks list --format json`,
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				return outputWeek(app, f, app.Engine.List())
			})
		},
	}
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Category string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Long: fmt.Sprintf(`Add a habit with a blank grid. Name and category are required.

Suggested categories: %s

Examples:
  streaks add "Go for a walk" -c Health
  streaks add Journal --category "Personal Growth"`, strings.Join(habit.SuggestedCategories, ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				id, err := app.Engine.AddHabit(ctx, name, opts.Category)
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeGeneric, err)
				}
				h, err := app.Engine.Find(id)
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeGeneric, err)
				}
				f.VerboseLog("habit id: %s", h.ID)

				if f.Format == "json" {
					return f.Success(HabitResult{Habit: viewOf(h), Milestone: app.Milestone()})
				}
				return f.Success(fmt.Sprintf("Added %q (%s) as %s", h.Name, h.Category, h.ID))
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "habit category (required)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <habit>",
		Short:   "Delete a habit by id or name",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				h, err := app.Engine.Find(args[0])
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeGeneric, err)
				}
				deleted := app.Engine.DeleteHabit(ctx, h.ID)

				if f.Format == "json" {
					return f.Success(HabitResult{Habit: viewOf(h), Deleted: deleted})
				}
				return f.Success(fmt.Sprintf("Deleted %q", h.Name))
			})
		},
	}
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <habit> <day>",
		Short: "Mark or unmark one day of the selected week",
		Long: `Flip one day of the selected week for a habit.

<habit> is an id or a unique name (case-insensitive). <day> is 0-6 with
0 = Sunday, or a day name such as "mon" or "friday".

A day cannot be marked while a later day of the same week is marked.
Unmarking is always allowed.

Examples:
  streaks toggle Read mon
  streaks toggle "Drink some water" 0
  streaks toggle Read sat --week 2026-10-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				h, err := app.Engine.Find(args[0])
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeGeneric, err)
				}
				updated, err := app.Engine.ToggleDay(ctx, h.ID, day)
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeGeneric, err)
				}

				if f.Format == "json" {
					return f.Success(HabitResult{Habit: viewOf(updated), Milestone: app.Milestone()})
				}
				return f.Success(renderHabits([]habit.Habit{updated}, app.Engine.SelectedDate(), app.Clock.Now()))
			})
		},
	}
}

// NewWeekCommand creates the week command.
func NewWeekCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week [date]",
		Short: "Show the week containing a date (default today)",
		Long: `Select the week containing date (YYYY-MM-DD) and show its grids.
Streaks are recomputed from that week's marks.

Examples:
  streaks week
  streaks week 2026-10-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				date := app.Clock.Now()
				if len(args) == 1 {
					d, err := parseDate(args[0], date.Location())
					if err != nil {
						return f.Fail(ExitCommandError, ErrCodeUsage, err)
					}
					date = d
				}
				return outputWeek(app, f, app.Engine.SelectWeek(ctx, date))
			})
		},
	}
}
