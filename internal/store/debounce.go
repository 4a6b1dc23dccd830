package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/streaks/internal/habit"
)

// Saver is the load/save pair that DebouncedRepository wraps.
type Saver interface {
	Load(ctx context.Context) ([]habit.Habit, error)
	Save(ctx context.Context, habits []habit.Habit) error
}

// DebouncedRepository batches rapid saves into one write once no save has
// arrived for the configured delay. The most recent collection wins; nothing
// is merged.
//
// Save never fails: background write errors go to the error handler. Call
// Flush or Close before exit to write any pending collection.
type DebouncedRepository struct {
	inner   Saver
	delay   time.Duration
	logger  *zap.Logger
	onError func(error)

	writeMu sync.Mutex // held across inner.Save to keep writes ordered

	mu      sync.Mutex
	pending []habit.Habit
	timer   *time.Timer
}

// NewDebouncedRepository wraps inner. onError may be nil.
func NewDebouncedRepository(inner Saver, delay time.Duration, logger *zap.Logger, onError func(error)) *DebouncedRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebouncedRepository{inner: inner, delay: delay, logger: logger, onError: onError}
}

// Load flushes any pending collection, then reads through.
func (d *DebouncedRepository) Load(ctx context.Context) ([]habit.Habit, error) {
	if err := d.Flush(ctx); err != nil {
		return nil, err
	}
	return d.inner.Load(ctx)
}

// Save schedules habits to be written after the quiet period.
func (d *DebouncedRepository) Save(_ context.Context, habits []habit.Habit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = habit.CloneAll(habits)
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flushPending)
	} else {
		d.timer.Reset(d.delay)
	}
	return nil
}

// Pending reports whether a collection is waiting to be written.
func (d *DebouncedRepository) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush writes any pending collection now.
func (d *DebouncedRepository) Flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	p := d.take()
	if p == nil {
		return nil
	}
	return d.inner.Save(ctx, p)
}

// Close flushes pending writes.
func (d *DebouncedRepository) Close() error {
	return d.Flush(context.Background())
}

func (d *DebouncedRepository) flushPending() {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	p := d.take()
	if p == nil {
		return
	}
	if err := d.inner.Save(context.Background(), p); err != nil {
		d.logger.Warn("debounced save failed", zap.Error(err))
		if d.onError != nil {
			d.onError(err)
		}
	}
}

// take removes and returns the pending collection, stopping the timer.
func (d *DebouncedRepository) take() []habit.Habit {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return p
}
