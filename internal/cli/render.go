package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/streaks/internal/habit"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorMuted   = lipgloss.AdaptiveColor{Light: "#4E5D63", Dark: "#8A9AA0"}
)

var styles = struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Muted     lipgloss.Style
	Marked    lipgloss.Style
	Blank     lipgloss.Style
	Name      lipgloss.Style
	Milestone lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Header: lipgloss.NewStyle().Bold(true),
	Muted:  lipgloss.NewStyle().Foreground(colorMuted),
	Marked: lipgloss.NewStyle().Foreground(colorSuccess),
	Blank:  lipgloss.NewStyle().Foreground(colorMuted),
	Name:   lipgloss.NewStyle().Width(24),
	Milestone: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorWarning).
		Padding(0, 1),
}

// applyTheme picks the adaptive color variants for the stored preference.
func applyTheme(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}

const (
	markOn  = "✓"
	markOff = "·"
)

var dayInitials = [habit.DaysPerWeek]string{"S", "M", "T", "W", "T", "F", "S"}

// renderWeekTitle renders "Week of Oct 18 - Oct 24 (2026-10-18)", marking
// the current week.
func renderWeekTitle(selected, now time.Time) string {
	title := styles.Title.Render("Week of " + habit.WeekRange(selected))
	suffix := styles.Muted.Render(fmt.Sprintf("(%s)", habit.WeekKey(selected)))
	if habit.IsCurrentWeek(selected, now) {
		suffix += " " + styles.Muted.Render("this week")
	}
	return title + " " + suffix
}

func renderGrid(days habit.Grid) string {
	cells := make([]string, 0, habit.DaysPerWeek)
	for _, on := range days {
		if on {
			cells = append(cells, styles.Marked.Render(markOn))
		} else {
			cells = append(cells, styles.Blank.Render(markOff))
		}
	}
	return strings.Join(cells, " ")
}

func renderHabitRow(h habit.Habit) string {
	return fmt.Sprintf("  %s %s %6d %7.0f%%  %s",
		styles.Name.Render(truncate(h.Name, 24)),
		renderGrid(h.Days),
		h.Streak,
		habit.Progress(h.Days),
		styles.Muted.Render(h.Category+" · "+h.ID),
	)
}

// renderHabits renders the week title and one row per habit.
func renderHabits(habits []habit.Habit, selected, now time.Time) string {
	var b strings.Builder
	b.WriteString(renderWeekTitle(selected, now))
	b.WriteString("\n\n")

	if len(habits) == 0 {
		b.WriteString(styles.Muted.Render("  No habits. Add one with: streaks add <name> -c <category>"))
		return b.String()
	}

	b.WriteString(styles.Header.Render(fmt.Sprintf("  %-24s %s %6s %8s", "HABIT", strings.Join(dayInitials[:], " "), "STREAK", "DONE")))
	for _, h := range habits {
		b.WriteString("\n")
		b.WriteString(renderHabitRow(h))
	}
	return b.String()
}

func renderMilestone(msg string) string {
	return styles.Milestone.Render("🎉 " + msg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
