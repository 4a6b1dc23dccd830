package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/streaks/internal/habit"
)

// Repository loads and saves the whole habit collection.
// Load returns nil when nothing usable is stored.
type Repository interface {
	Load(ctx context.Context) ([]habit.Habit, error)
	Save(ctx context.Context, habits []habit.Habit) error
}

// MilestoneLedger records every detected milestone crossing. It is written
// for the user's benefit and never consulted when deciding to notify.
type MilestoneLedger interface {
	RecordMilestones(ctx context.Context, week string, at time.Time, found []habit.Milestone) error
	ClearMilestones(ctx context.Context) error
}

// Engine is the habit store.
//
// Thread-safety model:
//   - every exported method is safe from any goroutine
//   - mutations are serialized by mu; handlers run after mu is released
//     and may call back into the engine
type Engine struct {
	mu       sync.Mutex
	repo     Repository
	ledger   MilestoneLedger
	clock    Clock
	ids      IDGenerator
	seq      *Sequence
	logger   *zap.Logger
	metrics  *Metrics
	habits   []habit.Habit
	selected time.Time

	handlerMu   sync.RWMutex
	onMilestone func(message string)
	onWarning   func(err error)

	resetClearsCongratulated bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of "today". Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the habit id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the collectors. Default: unregistered collectors.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMilestoneLedger records detected milestones in ledger.
func WithMilestoneLedger(l MilestoneLedger) Option {
	return func(e *Engine) { e.ledger = l }
}

// WithMilestoneHandler is OnMilestone as a construction option, so that a
// milestone found while starting up is not missed.
func WithMilestoneHandler(fn func(message string)) Option {
	return func(e *Engine) { e.onMilestone = fn }
}

// WithWarningHandler receives every PersistenceWarning.
func WithWarningHandler(fn func(err error)) Option {
	return func(e *Engine) { e.onWarning = fn }
}

// WithResetClearsCongratulated makes ResetStreaks also clear the
// congratulated flag. Off by default, which keeps the flag across resets.
func WithResetClearsCongratulated(on bool) Option {
	return func(e *Engine) { e.resetClearsCongratulated = on }
}

// New loads the stored collection, seeding the default habits when nothing
// is stored, selects the week containing today and commits the result.
//
// A load failure is returned: starting from defaults would overwrite the
// user's data on the next save.
func New(ctx context.Context, repo Repository, opts ...Option) (*Engine, error) {
	e := &Engine{
		repo:   repo,
		clock:  SystemClock{},
		ids:    UUIDv7Generator{},
		seq:    NewSequence(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}

	stored, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}

	e.mu.Lock()
	if stored == nil {
		e.habits = habit.Defaults(e.ids.Generate)
		e.logger.Info("seeded default habits", zap.Int("count", len(e.habits)))
	} else {
		e.habits = habit.CloneAll(stored)
		e.logger.Debug("habits restored", zap.Int("count", len(e.habits)))
	}
	// Records written before per-week flags carry a single flag; pin it to
	// the week being opened.
	today := habit.WeekKey(e.clock.Now())
	for i := range e.habits {
		if h := &e.habits[i]; h.Celebrated == nil && h.Congratulated {
			h.SetCelebrated(today, true)
		}
	}
	e.loadWeekLocked(e.clock.Now())
	out := e.commitLocked(ctx, "load")
	e.mu.Unlock()

	e.deliver(out)
	return e, nil
}

// OnMilestone registers the milestone callback, replacing any previous one.
// It is invoked at most once per mutation with the last notice detected.
func (e *Engine) OnMilestone(fn func(message string)) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.onMilestone = fn
}

// List returns a copy of the collection in display order.
func (e *Engine) List() []habit.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return habit.CloneAll(e.habits)
}

// Find resolves ref as a habit id, or else as a unique case-insensitive
// name.
func (e *Engine) Find(ref string) (habit.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexLocked(ref); i >= 0 {
		return e.habits[i].Clone(), nil
	}

	match := -1
	for i, h := range e.habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			if match >= 0 {
				return habit.Habit{}, &habit.Error{
					Code:    habit.ErrCodeNotFound,
					HabitID: ref,
					Message: "name matches more than one habit, use the id",
				}
			}
			match = i
		}
	}
	if match < 0 {
		return habit.Habit{}, habit.NewNotFoundError(ref)
	}
	return e.habits[match].Clone(), nil
}

// SelectedDate returns the date whose week is on display.
func (e *Engine) SelectedDate() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// WeekKey returns the key of the week on display.
func (e *Engine) WeekKey() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return habit.WeekKey(e.selected)
}

// Revision returns the number of commits applied so far.
func (e *Engine) Revision() int64 {
	return e.seq.Current()
}

func (e *Engine) indexLocked(id string) int {
	for i, h := range e.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// loadWeekLocked selects date and swaps every grid for the one stored under
// its week, re-deriving streaks from the loaded grids. The congratulated
// flag follows the week, so a celebrated week stays celebrated.
func (e *Engine) loadWeekLocked(date time.Time) {
	e.selected = date
	key := habit.WeekKey(date)
	for i := range e.habits {
		h := &e.habits[i]
		if h.History == nil {
			h.History = map[string]habit.Grid{}
		}
		h.Days = h.History[key]
		h.Streak = habit.LongestRun(h.Days)
		h.Congratulated = h.CelebratedIn(key)
	}
}

// markCelebratedLocked stores each habit's flag under the selected week.
func (e *Engine) markCelebratedLocked() {
	key := habit.WeekKey(e.selected)
	for i := range e.habits {
		e.habits[i].SetCelebrated(key, e.habits[i].Congratulated)
	}
}

// commitOutcome is what a commit hands to deliver once the lock is released.
type commitOutcome struct {
	milestone *habit.Milestone
	warnings  []error
}

// commitLocked persists the collection, runs milestone detection and
// persists again if any habit was flagged.
func (e *Engine) commitLocked(ctx context.Context, op string) commitOutcome {
	var out commitOutcome
	seq := e.seq.Next()

	e.markCelebratedLocked()
	if w := e.saveLocked(ctx, op); w != nil {
		out.warnings = append(out.warnings, w)
	}

	found := habit.DetectMilestones(e.habits)
	if len(found) > 0 {
		e.metrics.Milestones.Add(float64(len(found)))
		e.markCelebratedLocked()
		if w := e.saveLocked(ctx, op); w != nil {
			out.warnings = append(out.warnings, w)
		}
		if e.ledger != nil {
			if err := e.ledger.RecordMilestones(ctx, habit.WeekKey(e.selected), e.clock.Now(), found); err != nil {
				out.warnings = append(out.warnings, e.persistFailed(op, err))
			}
		}
		last := found[len(found)-1]
		out.milestone = &last
		for _, m := range found {
			e.logger.Info("milestone reached",
				zap.String("habit_id", m.HabitID),
				zap.String("habit", m.HabitName),
				zap.Int("streak", m.Streak),
			)
		}
		if len(found) > 1 {
			e.logger.Debug("several milestones in one commit, surfacing the last", zap.Int("count", len(found)))
		}
	}

	e.metrics.Habits.Set(float64(len(e.habits)))
	e.logger.Debug("committed", zap.String("op", op), zap.Int64("seq", seq), zap.Int("habits", len(e.habits)))
	return out
}

func (e *Engine) saveLocked(ctx context.Context, op string) error {
	if err := e.repo.Save(ctx, habit.CloneAll(e.habits)); err != nil {
		return e.persistFailed(op, err)
	}
	return nil
}

func (e *Engine) persistFailed(op string, err error) *PersistenceWarning {
	e.metrics.PersistenceFailures.Inc()
	e.logger.Warn("persistence failed, continuing in memory", zap.String("op", op), zap.Error(err))
	return &PersistenceWarning{Op: op, Err: err}
}

// deliver runs the handlers outside the engine lock.
func (e *Engine) deliver(out commitOutcome) {
	e.handlerMu.RLock()
	onWarning, onMilestone := e.onWarning, e.onMilestone
	e.handlerMu.RUnlock()

	if onWarning != nil {
		for _, w := range out.warnings {
			onWarning(w)
		}
	}
	if out.milestone != nil && onMilestone != nil {
		onMilestone(out.milestone.Message)
	}
}
