package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/streaks/internal/habit"
)

func TestDebouncedRepository_BatchesWrites(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{KV: NewMemoryKV()}
	repo := NewHabitRepository(kv, nil)
	d := NewDebouncedRepository(repo, 20*time.Millisecond, nil, nil)

	for i := 1; i <= 5; i++ {
		require.NoError(t, d.Save(ctx, []habit.Habit{{ID: "h", Streak: i, History: map[string]habit.Grid{}}}))
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return !d.Pending() && kv.Sets() == 1 }, time.Second, 5*time.Millisecond)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Streak, "last writer wins")
}

func TestDebouncedRepository_FlushWritesImmediately(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{KV: NewMemoryKV()}
	d := NewDebouncedRepository(NewHabitRepository(kv, nil), time.Hour, nil, nil)

	require.NoError(t, d.Save(ctx, sampleHabits()))
	assert.Equal(t, 0, kv.Sets())

	require.NoError(t, d.Flush(ctx))
	assert.Equal(t, 1, kv.Sets())
	assert.False(t, d.Pending())

	require.NoError(t, d.Flush(ctx), "flush with nothing pending is a no-op")
	assert.Equal(t, 1, kv.Sets())
}

func TestDebouncedRepository_LoadSeesPendingSave(t *testing.T) {
	ctx := context.Background()
	d := NewDebouncedRepository(NewHabitRepository(NewMemoryKV(), nil), time.Hour, nil, nil)

	require.NoError(t, d.Save(ctx, sampleHabits()))
	got, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDebouncedRepository_SaveCopiesInput(t *testing.T) {
	ctx := context.Background()
	d := NewDebouncedRepository(NewHabitRepository(NewMemoryKV(), nil), time.Hour, nil, nil)

	habits := sampleHabits()
	require.NoError(t, d.Save(ctx, habits))
	habits[0].Name = "mutated"
	habits[0].History["2026-10-18"] = habit.Grid{}

	require.NoError(t, d.Close())
	got, err := d.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Read", got[0].Name)
	assert.True(t, got[0].History["2026-10-18"][0])
}

type failingSaver struct{ err error }

func (f failingSaver) Load(context.Context) ([]habit.Habit, error)  { return nil, nil }
func (f failingSaver) Save(context.Context, []habit.Habit) error { return f.err }

func TestDebouncedRepository_ReportsBackgroundErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	errs := make(chan error, 1)
	d := NewDebouncedRepository(failingSaver{err: boom}, 5*time.Millisecond, nil, func(err error) { errs <- err })

	require.NoError(t, d.Save(context.Background(), sampleHabits()))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("background error was not reported")
	}
}
