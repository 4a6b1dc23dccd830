package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// MilestoneEntry is one row of the milestone ledger.
type MilestoneEntry struct {
	HabitID   string    `json:"habit_id"`
	HabitName string    `json:"habit_name"`
	Streak    int       `json:"streak"`
	Week      string    `json:"week"`
	At        time.Time `json:"at"`
}

// NewMilestonesCommand creates the milestones command.
func NewMilestonesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones",
		Short: "List every milestone reached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				seen, err := app.Repo.SeenMilestones(ctx)
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeStore, err)
				}

				entries := []MilestoneEntry{}
				for id, records := range seen {
					for _, r := range records {
						entries = append(entries, MilestoneEntry{
							HabitID:   id,
							HabitName: r.HabitName,
							Streak:    r.Streak,
							Week:      r.Week,
							At:        r.At,
						})
					}
				}
				sort.SliceStable(entries, func(i, j int) bool {
					if !entries[i].At.Equal(entries[j].At) {
						return entries[i].At.Before(entries[j].At)
					}
					return entries[i].HabitName < entries[j].HabitName
				})

				if f.Format == "json" {
					return f.Success(entries)
				}
				if len(entries) == 0 {
					return f.Success(styles.Muted.Render("No milestones yet."))
				}
				var b strings.Builder
				b.WriteString(styles.Header.Render(fmt.Sprintf("%-12s %-24s %s", "WEEK", "HABIT", "STREAK")))
				for _, e := range entries {
					fmt.Fprintf(&b, "\n%-12s %-24s %d days", e.Week, truncate(e.HabitName, 24), e.Streak)
				}
				return f.Success(b.String())
			})
		},
	}
}
