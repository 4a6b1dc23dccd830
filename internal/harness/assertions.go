package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/streaks/internal/engine"
	"github.com/roach88/streaks/internal/habit"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", ev.Step, ev.Action, ev.Habit, ev.Outcome)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the engine's final
// state and returns the failure messages.
func EvaluateAssertions(eng *engine.Engine, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertHabitState:
			err = assertHabitState(eng, a)
		case AssertHabitCount:
			err = assertCount(AssertHabitCount, len(eng.List()), *a.Count)
		case AssertMilestoneCount:
			err = assertCount(AssertMilestoneCount, len(result.Notices), *a.Count)
		case AssertHistory:
			err = assertHistory(eng, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			if ae, ok := err.(*AssertionError); ok {
				ae.Trace = result.Trace
			}
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertHabitState(eng *engine.Engine, a Assertion) error {
	h, err := eng.Find(a.Habit)
	if err != nil {
		return &AssertionError{
			Type:     AssertHabitState,
			Expected: fmt.Sprintf("habit %s", a.Habit),
			Actual:   err.Error(),
		}
	}

	if a.Days != nil {
		if got := markedDays(h.Days); !slices.Equal(got, a.Days) {
			return &AssertionError{
				Type:     AssertHabitState,
				Expected: fmt.Sprintf("%s marked days %v", h.Name, a.Days),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	}
	if a.Streak != nil && h.Streak != *a.Streak {
		return &AssertionError{
			Type:     AssertHabitState,
			Expected: fmt.Sprintf("%s streak %d", h.Name, *a.Streak),
			Actual:   fmt.Sprintf("%d", h.Streak),
		}
	}
	if a.Congratulated != nil && h.Congratulated != *a.Congratulated {
		return &AssertionError{
			Type:     AssertHabitState,
			Expected: fmt.Sprintf("%s congratulated=%t", h.Name, *a.Congratulated),
			Actual:   fmt.Sprintf("congratulated=%t", h.Congratulated),
		}
	}
	return nil
}

func assertHistory(eng *engine.Engine, a Assertion) error {
	h, err := eng.Find(a.Habit)
	if err != nil {
		return &AssertionError{
			Type:     AssertHistory,
			Expected: fmt.Sprintf("habit %s", a.Habit),
			Actual:   err.Error(),
		}
	}

	got := markedDays(h.History[a.Week])
	want := a.Days
	if want == nil {
		want = []int{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertHistory,
			Expected: fmt.Sprintf("%s week %s marked days %v", h.Name, a.Week, want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertCount(kind string, got, want int) error {
	if got != want {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%d", want),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

func markedDays(g habit.Grid) []int {
	out := []int{}
	for i, on := range g {
		if on {
			out = append(out, i)
		}
	}
	return out
}
