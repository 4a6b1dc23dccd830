package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/streaks/internal/habit"
)

// Keys written by HabitRepository.
const (
	KeyHabits         = "habits"
	KeyDarkMode       = "darkMode"
	KeySeenMilestones = "seenMilestones"
)

// MilestoneRecord is one entry in the seenMilestones ledger.
type MilestoneRecord struct {
	HabitName string    `json:"habit_name"`
	Streak    int       `json:"streak"`
	Week      string    `json:"week"`
	At        time.Time `json:"at"`
}

// HabitRepository persists the engine's records on top of a KV.
type HabitRepository struct {
	kv     KV
	logger *zap.Logger
}

// NewHabitRepository wraps kv. A nil logger discards log output.
func NewHabitRepository(kv KV, logger *zap.Logger) *HabitRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HabitRepository{kv: kv, logger: logger}
}

// Load returns the stored collection, or nil when nothing usable is stored.
// An undecodable record is logged and treated as absent so that the caller
// falls back to defaults.
func (r *HabitRepository) Load(ctx context.Context) ([]habit.Habit, error) {
	data, found, err := r.kv.Get(ctx, KeyHabits)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	if !found {
		r.logger.Debug("no stored habits")
		return nil, nil
	}

	habits, err := unmarshalHabits(data)
	if err != nil {
		r.logger.Warn("stored habits are unreadable, ignoring", zap.Error(err), zap.Int("bytes", len(data)))
		return nil, nil
	}

	r.logger.Debug("habits loaded", zap.Int("count", len(habits)))
	return habits, nil
}

// Save replaces the stored collection in a single write.
func (r *HabitRepository) Save(ctx context.Context, habits []habit.Habit) error {
	data, err := marshalHabits(habits)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, KeyHabits, data); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	return nil
}

// DarkMode returns the stored display preference; false when unset.
func (r *HabitRepository) DarkMode(ctx context.Context) (bool, error) {
	data, found, err := r.kv.Get(ctx, KeyDarkMode)
	if err != nil {
		return false, fmt.Errorf("load dark mode: %w", err)
	}
	if !found {
		return false, nil
	}
	var on bool
	if err := json.Unmarshal(data, &on); err != nil {
		r.logger.Warn("stored dark mode is unreadable, using default", zap.Error(err))
		return false, nil
	}
	return on, nil
}

// SetDarkMode stores the display preference.
func (r *HabitRepository) SetDarkMode(ctx context.Context, on bool) error {
	data, _ := json.Marshal(on)
	if err := r.kv.Set(ctx, KeyDarkMode, data); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// SeenMilestones returns the ledger keyed by habit id.
func (r *HabitRepository) SeenMilestones(ctx context.Context) (map[string][]MilestoneRecord, error) {
	seen := map[string][]MilestoneRecord{}
	data, found, err := r.kv.Get(ctx, KeySeenMilestones)
	if err != nil {
		return nil, fmt.Errorf("load seen milestones: %w", err)
	}
	if !found {
		return seen, nil
	}
	if err := json.Unmarshal(data, &seen); err != nil {
		r.logger.Warn("stored milestone ledger is unreadable, starting over", zap.Error(err))
		return map[string][]MilestoneRecord{}, nil
	}
	return seen, nil
}

// RecordMilestones appends crossings to the ledger.
func (r *HabitRepository) RecordMilestones(ctx context.Context, week string, at time.Time, found []habit.Milestone) error {
	if len(found) == 0 {
		return nil
	}
	seen, err := r.SeenMilestones(ctx)
	if err != nil {
		return err
	}
	for _, m := range found {
		seen[m.HabitID] = append(seen[m.HabitID], MilestoneRecord{
			HabitName: m.HabitName,
			Streak:    m.Streak,
			Week:      week,
			At:        at.UTC(),
		})
	}
	data, err := json.Marshal(seen)
	if err != nil {
		return fmt.Errorf("marshal seen milestones: %w", err)
	}
	if err := r.kv.Set(ctx, KeySeenMilestones, data); err != nil {
		return fmt.Errorf("save seen milestones: %w", err)
	}
	return nil
}

// ClearMilestones empties the ledger.
func (r *HabitRepository) ClearMilestones(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeySeenMilestones); err != nil {
		return fmt.Errorf("clear seen milestones: %w", err)
	}
	return nil
}
