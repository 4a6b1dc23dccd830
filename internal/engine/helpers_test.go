package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/streaks/internal/habit"
	"github.com/roach88/streaks/internal/store"
	"github.com/roach88/streaks/internal/testutil"
)

// monday is Monday 2026-10-19; its week key is 2026-10-18.
var monday = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

// spyRepo wraps a HabitRepository, counting saves and optionally failing them.
type spyRepo struct {
	*store.HabitRepository

	mu       sync.Mutex
	saves    int
	failSave error
	failLoad error
}

func (r *spyRepo) Load(ctx context.Context) ([]habit.Habit, error) {
	if r.failLoad != nil {
		return nil, r.failLoad
	}
	return r.HabitRepository.Load(ctx)
}

func (r *spyRepo) Save(ctx context.Context, habits []habit.Habit) error {
	r.mu.Lock()
	r.saves++
	fail := r.failSave
	r.mu.Unlock()
	if fail != nil {
		return fail
	}
	return r.HabitRepository.Save(ctx, habits)
}

func (r *spyRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *spyRepo) setFailSave(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSave = err
}

// recorder collects handler invocations.
type recorder struct {
	mu       sync.Mutex
	notices  []string
	warnings []error
}

func (r *recorder) milestone(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *recorder) warning(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, err)
}

func (r *recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

func (r *recorder) Warnings() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.warnings...)
}

type testEnv struct {
	eng     *Engine
	repo    *spyRepo
	kv      *store.MemoryKV
	clock   *testutil.FixedClock
	rec     *recorder
	metrics *Metrics
}

// newTestEnv builds an engine over an in-memory KV, optionally seeded with
// a stored collection.
func newTestEnv(t *testing.T, seed []habit.Habit, opts ...Option) *testEnv {
	t.Helper()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	hr := store.NewHabitRepository(kv, nil)
	if seed != nil {
		require.NoError(t, hr.Save(ctx, seed))
	}

	env := &testEnv{
		repo:    &spyRepo{HabitRepository: hr},
		kv:      kv,
		clock:   testutil.NewFixedClock(monday),
		rec:     &recorder{},
		metrics: NewMetrics(nil),
	}

	base := []Option{
		WithClock(env.clock),
		WithIDGenerator(NewSequentialGenerator("h")),
		WithMetrics(env.metrics),
		WithMilestoneLedger(hr),
		WithMilestoneHandler(env.rec.milestone),
		WithWarningHandler(env.rec.warning),
	}
	eng, err := New(ctx, env.repo, append(base, opts...)...)
	require.NoError(t, err)
	env.eng = eng
	return env
}

func (env *testEnv) find(t *testing.T, name string) habit.Habit {
	t.Helper()
	h, err := env.eng.Find(name)
	require.NoError(t, err)
	return h
}

func (env *testEnv) stored(t *testing.T) []habit.Habit {
	t.Helper()
	habits, err := env.repo.HabitRepository.Load(context.Background())
	require.NoError(t, err)
	return habits
}

var errQuota = errors.New("storage quota exceeded")
