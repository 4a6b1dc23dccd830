package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewResetStreaksCommand creates the reset-streaks command.
func NewResetStreaksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-streaks",
		Short: "Clear every grid, streak and week history",
		Long: `Clear the marks of every week for every habit. Habits keep their id,
name and category. The current week is selected afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				app.Engine.ResetStreaks(ctx)
				f.VerboseLog("streaks reset")
				return outputWeek(app, f, app.Engine.List())
			})
		},
	}
}

// NewResetDefaultsCommand creates the reset-defaults command.
func NewResetDefaultsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-defaults",
		Short: "Replace all habits with the default set",
		Long: `Discard every habit, its history and the milestone ledger, and start
again from the five default habits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				app.Engine.ResetToDefaults(ctx)
				f.VerboseLog("habits reset to defaults")
				return outputWeek(app, f, app.Engine.List())
			})
		},
	}
}
