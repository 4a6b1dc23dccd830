package harness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/streaks/internal/engine"
	"github.com/roach88/streaks/internal/habit"
	"github.com/roach88/streaks/internal/store"
	"github.com/roach88/streaks/internal/testutil"
)

// Harness holds the per-scenario engine and its deterministic helpers.
type Harness struct {
	engine  *engine.Engine
	repo    *store.HabitRepository
	clock   *testutil.FixedClock
	logger  *zap.Logger
	notices []string
}

// Option configures Run.
type Option func(*Harness)

// WithLogger routes engine logs to l. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Open the store and seed the scenario's habits, if any
//  2. Start the engine at the scenario's today
//  3. Execute flow steps, checking expect clauses
//  4. Evaluate assertions against the final state
//
// The error return is for infrastructure failures; scenario failures are
// reported through Result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	today, err := scenario.TodayTime()
	if err != nil {
		return nil, fmt.Errorf("invalid today: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		clock:  testutil.NewFixedClock(today),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.repo = store.NewHabitRepository(st, h.logger)

	ids := engine.NewSequentialGenerator("h")
	if err := h.seed(ctx, scenario.Habits, ids); err != nil {
		return nil, err
	}

	h.engine, err = engine.New(ctx, h.repo,
		engine.WithClock(h.clock),
		engine.WithIDGenerator(ids),
		engine.WithLogger(h.logger),
		engine.WithMilestoneLedger(h.repo),
		engine.WithMilestoneHandler(func(msg string) { h.notices = append(h.notices, msg) }),
		engine.WithWarningHandler(func(err error) {
			h.logger.Warn("persistence warning during scenario", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		h.executeStep(ctx, i+1, step, result)
	}
	result.Notices = append(result.Notices, h.notices...)

	for _, msg := range EvaluateAssertions(h.engine, result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) seed(ctx context.Context, seeds []SeedHabit, ids engine.IDGenerator) error {
	if len(seeds) == 0 {
		return nil
	}
	habits := make([]habit.Habit, 0, len(seeds))
	for i, s := range seeds {
		hb, err := habit.New(ids.Generate(), habit.NewHabitInput{Name: s.Name, Category: s.Category})
		if err != nil {
			return fmt.Errorf("habits[%d]: %w", i, err)
		}
		habits = append(habits, hb)
	}
	if err := h.repo.Save(ctx, habits); err != nil {
		return fmt.Errorf("failed to seed habits: %w", err)
	}
	return nil
}

// resolve maps a step's habit reference to an id. Unknown references pass
// through unchanged so the engine reports them.
func (h *Harness) resolve(ref string) string {
	if hb, err := h.engine.Find(ref); err == nil {
		return hb.ID
	}
	return ref
}

func (h *Harness) executeStep(ctx context.Context, n int, step FlowStep, result *Result) {
	before := len(h.notices)
	ev := TraceEvent{Step: n, Action: step.Action, Outcome: OutcomeOK}

	switch step.Action {
	case ActionAdd:
		id, err := h.engine.AddHabit(ctx, step.Name, step.Category)
		ev.Habit = id
		ev.Outcome = outcomeOf(err)

	case ActionDelete:
		ev.Habit = h.resolve(step.Habit)
		if !h.engine.DeleteHabit(ctx, ev.Habit) {
			ev.Outcome = OutcomeNotFound
		}

	case ActionToggle:
		ev.Habit = h.resolve(step.Habit)
		day := *step.Day
		ev.Day = &day
		hb, err := h.engine.ToggleDay(ctx, ev.Habit, day)
		ev.Outcome = outcomeOf(err)
		if err == nil || habit.IsToggleRejected(err) {
			streak := hb.Streak
			ev.Streak = &streak
		}

	case ActionSelectWeek:
		date, _ := parseDate(step.Date)
		h.engine.SelectWeek(ctx, date)

	case ActionResetStreaks:
		h.engine.ResetStreaks(ctx)

	case ActionResetDefaults:
		h.engine.ResetToDefaults(ctx)
	}

	if len(h.notices) > before {
		ev.Milestone = h.notices[len(h.notices)-1]
	}
	ev.Week = h.engine.WeekKey()
	ev.Revision = h.engine.Revision()
	result.addEvent(ev)

	h.logger.Debug("flow step completed",
		zap.Int("step", n),
		zap.String("action", step.Action),
		zap.String("habit", ev.Habit),
		zap.String("outcome", ev.Outcome),
	)

	if step.Expect != nil {
		checkExpect(n, step, ev, result)
	}
}

func checkExpect(n int, step FlowStep, ev TraceEvent, result *Result) {
	want := step.Expect
	if ev.Outcome != want.Outcome {
		result.AddError(fmt.Sprintf("step %d (%s): expected outcome %s, got %s", n, step.Action, want.Outcome, ev.Outcome))
	}
	if want.Streak != nil {
		switch {
		case ev.Streak == nil:
			result.AddError(fmt.Sprintf("step %d (%s): expected streak %d, got none", n, step.Action, *want.Streak))
		case *ev.Streak != *want.Streak:
			result.AddError(fmt.Sprintf("step %d (%s): expected streak %d, got %d", n, step.Action, *want.Streak, *ev.Streak))
		}
	}
	if want.Milestone != "" && ev.Milestone != want.Milestone {
		result.AddError(fmt.Sprintf("step %d (%s): expected milestone %q, got %q", n, step.Action, want.Milestone, ev.Milestone))
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case habit.IsToggleRejected(err):
		return OutcomeRejected
	case habit.IsValidationError(err):
		return OutcomeInvalid
	case habit.IsRangeError(err):
		return OutcomeOutOfRange
	case habit.IsNotFound(err):
		return OutcomeNotFound
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
