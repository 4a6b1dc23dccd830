package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ThemeResult is the JSON payload of the theme command.
type ThemeResult struct {
	Theme    string `json:"theme"`
	DarkMode bool   `json:"dark_mode"`
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// NewThemeCommand creates the theme command.
func NewThemeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the color theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if len(args) == 1 {
					if err := app.Repo.SetDarkMode(ctx, args[0] == "dark"); err != nil {
						return f.Fail(ExitCommandError, ErrCodeStore, err)
					}
				}
				dark, err := app.Repo.DarkMode(ctx)
				if err != nil {
					return f.Fail(ExitCommandError, ErrCodeStore, err)
				}
				applyTheme(dark)

				if f.Format == "json" {
					return f.Success(ThemeResult{Theme: themeName(dark), DarkMode: dark})
				}
				return f.Success(fmt.Sprintf("Theme: %s", themeName(dark)))
			})
		},
	}
}
