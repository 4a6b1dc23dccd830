package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/streaks/internal/habit"
)

// Scenario is one conformance scenario: a flow of engine operations run
// from a fixed "today", followed by assertions on the final state.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Today is the fixed clock date, YYYY-MM-DD.
	Today string `yaml:"today"`

	// Habits seeds the store before the engine starts. When empty the engine
	// seeds its default habits.
	Habits []SeedHabit `yaml:"habits,omitempty"`

	Flow       []FlowStep  `yaml:"flow"`
	Assertions []Assertion `yaml:"assertions"`
}

// SeedHabit is a habit stored before the engine starts.
type SeedHabit struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// FlowStep is a single engine operation. Which fields apply depends on
// Action.
type FlowStep struct {
	Action string `yaml:"action"`

	// Habit is an id or unique name (toggle, delete).
	Habit string `yaml:"habit,omitempty"`

	// Name and Category are the add arguments.
	Name     string `yaml:"name,omitempty"`
	Category string `yaml:"category,omitempty"`

	Day  *int   `yaml:"day,omitempty"`
	Date string `yaml:"date,omitempty"`

	// Expect is checked when present.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause is the expected result of a step.
type ExpectClause struct {
	Outcome   string `yaml:"outcome"`
	Streak    *int   `yaml:"streak,omitempty"`
	Milestone string `yaml:"milestone,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	Type  string `yaml:"type"`
	Habit string `yaml:"habit,omitempty"`
	Week  string `yaml:"week,omitempty"`

	// Days lists the marked day indices. nil skips the check for
	// habit_state; for history nil means no marked days.
	Days []int `yaml:"days,omitempty"`

	Streak        *int  `yaml:"streak,omitempty"`
	Congratulated *bool `yaml:"congratulated,omitempty"`
	Count         *int  `yaml:"count,omitempty"`
}

// Step actions.
const (
	ActionAdd           = "add"
	ActionDelete        = "delete"
	ActionToggle        = "toggle"
	ActionSelectWeek    = "select_week"
	ActionResetStreaks  = "reset_streaks"
	ActionResetDefaults = "reset_defaults"
)

// Step outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeRejected   = "rejected"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeOutOfRange = "out_of_range"
)

// Assertion types.
const (
	AssertHabitState     = "habit_state"
	AssertHabitCount     = "habit_count"
	AssertMilestoneCount = "milestone_count"
	AssertHistory        = "history"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// TodayTime returns Today as noon UTC.
func (s *Scenario) TodayTime() (time.Time, error) {
	return parseDate(s.Today)
}

func parseDate(v string) (time.Time, error) {
	d, err := time.ParseInLocation(habit.WeekKeyLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := s.TodayTime(); err != nil {
		return fmt.Errorf("today must be YYYY-MM-DD: %q", s.Today)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, h := range s.Habits {
		if h.Name == "" || h.Category == "" {
			return fmt.Errorf("habits[%d]: name and category are required", i)
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *FlowStep) error {
	switch step.Action {
	case ActionAdd, ActionResetStreaks, ActionResetDefaults:
	case ActionDelete:
		if step.Habit == "" {
			return fmt.Errorf("flow[%d]: habit is required for delete", index)
		}
	case ActionToggle:
		if step.Habit == "" {
			return fmt.Errorf("flow[%d]: habit is required for toggle", index)
		}
		if step.Day == nil {
			return fmt.Errorf("flow[%d]: day is required for toggle", index)
		}
	case ActionSelectWeek:
		if _, err := parseDate(step.Date); err != nil {
			return fmt.Errorf("flow[%d]: date must be YYYY-MM-DD for select_week", index)
		}
	case "":
		return fmt.Errorf("flow[%d]: action is required", index)
	default:
		return fmt.Errorf("flow[%d]: unknown action %q", index, step.Action)
	}

	if step.Expect != nil {
		switch step.Expect.Outcome {
		case OutcomeOK, OutcomeRejected, OutcomeInvalid, OutcomeNotFound, OutcomeOutOfRange:
		default:
			return fmt.Errorf("flow[%d].expect: unknown outcome %q", index, step.Expect.Outcome)
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertHabitState:
		if a.Habit == "" {
			return fmt.Errorf("assertions[%d]: habit is required for habit_state", index)
		}
	case AssertHabitCount, AssertMilestoneCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	case AssertHistory:
		if a.Habit == "" || a.Week == "" {
			return fmt.Errorf("assertions[%d]: habit and week are required for history", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
