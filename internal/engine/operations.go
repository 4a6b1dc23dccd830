package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/streaks/internal/habit"
)

// AddHabit appends a blank habit and returns its id. name and category are
// trimmed and must be non-empty; otherwise a VALIDATION error is returned
// and the collection is unchanged.
func (e *Engine) AddHabit(ctx context.Context, name, category string) (string, error) {
	e.mu.Lock()
	h, err := habit.New(e.ids.Generate(), habit.NewHabitInput{Name: name, Category: category})
	if err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.habits = append(e.habits, h)
	e.logger.Info("habit added", zap.String("habit_id", h.ID), zap.String("name", h.Name), zap.String("category", h.Category))
	out := e.commitLocked(ctx, "add")
	e.mu.Unlock()

	e.deliver(out)
	return h.ID, nil
}

// DeleteHabit removes the habit with the given id and reports whether it
// existed. Deleting an unknown id is a no-op, not an error.
func (e *Engine) DeleteHabit(ctx context.Context, id string) bool {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		e.logger.Debug("delete of unknown habit ignored", zap.String("habit_id", id))
		return false
	}
	e.habits = append(e.habits[:i], e.habits[i+1:]...)
	e.logger.Info("habit deleted", zap.String("habit_id", id))
	out := e.commitLocked(ctx, "delete")
	e.mu.Unlock()

	e.deliver(out)
	return true
}

// ToggleDay flips one day of the selected week for the habit.
//
// Errors: DAY_OUT_OF_RANGE when day is outside [0, 6]; NOT_FOUND for an
// unknown id; TOGGLE_REJECTED when the day lock refuses to mark the day, in
// which case the unchanged habit is returned alongside the error and nothing
// is persisted.
func (e *Engine) ToggleDay(ctx context.Context, id string, day int) (habit.Habit, error) {
	if err := habit.CheckDay(day); err != nil {
		return habit.Habit{}, err
	}

	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return habit.Habit{}, habit.NewNotFoundError(id)
	}

	updated, err := applyToggle(e.habits[i], day, habit.WeekKey(e.selected))
	if err != nil {
		e.metrics.Toggles.WithLabelValues(OutcomeRejected).Inc()
		e.logger.Debug("toggle rejected", zap.String("habit_id", id), zap.Int("day", day))
		h := e.habits[i].Clone()
		e.mu.Unlock()
		return h, err
	}

	e.habits[i] = updated
	e.metrics.Toggles.WithLabelValues(OutcomeApplied).Inc()
	out := e.commitLocked(ctx, "toggle")
	h := e.habits[i].Clone()
	e.mu.Unlock()

	e.deliver(out)
	return h, nil
}

// ResetStreaks blanks every grid, streak and history while keeping each
// habit's identity, name and category, and selects today's week. The
// congratulated flag is kept unless WithResetClearsCongratulated is set.
func (e *Engine) ResetStreaks(ctx context.Context) {
	e.mu.Lock()
	for i := range e.habits {
		h := &e.habits[i]
		h.Days = habit.Grid{}
		h.Streak = 0
		h.History = map[string]habit.Grid{}
		if e.resetClearsCongratulated {
			h.Congratulated = false
			h.Celebrated = nil
		}
	}
	e.selected = e.clock.Now()
	e.logger.Info("streaks reset", zap.Int("habits", len(e.habits)))
	out := e.commitLocked(ctx, "reset_streaks")
	e.mu.Unlock()

	e.deliver(out)
}

// ResetToDefaults replaces the collection with the default habits, clears
// the milestone ledger and selects today's week.
func (e *Engine) ResetToDefaults(ctx context.Context) {
	e.mu.Lock()
	e.habits = habit.Defaults(e.ids.Generate)
	e.selected = e.clock.Now()
	var ledgerWarning error
	if e.ledger != nil {
		if err := e.ledger.ClearMilestones(ctx); err != nil {
			ledgerWarning = e.persistFailed("reset_defaults", err)
		}
	}
	e.logger.Info("habits reset to defaults")
	out := e.commitLocked(ctx, "reset_defaults")
	if ledgerWarning != nil {
		out.warnings = append(out.warnings, ledgerWarning)
	}
	e.mu.Unlock()

	e.deliver(out)
}

// SelectWeek shows the week containing date: every grid is replaced by the
// one stored for that week, or a blank grid, and streaks are re-derived.
// History is not modified.
func (e *Engine) SelectWeek(ctx context.Context, date time.Time) []habit.Habit {
	e.mu.Lock()
	e.loadWeekLocked(date)
	e.logger.Debug("week selected", zap.String("week", habit.WeekKey(date)))
	out := e.commitLocked(ctx, "select_week")
	habits := habit.CloneAll(e.habits)
	e.mu.Unlock()

	e.deliver(out)
	return habits
}
