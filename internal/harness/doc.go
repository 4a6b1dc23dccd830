// Package harness runs YAML scenarios against a real habit engine.
//
// # Scenario Format
//
//	name: full_week_milestone
//	description: "Marking a whole week congratulates once"
//	today: 2026-10-19
//	habits:                       # optional; defaults are seeded when absent
//	  - name: Read
//	    category: Personal Growth
//	flow:
//	  - action: toggle
//	    habit: Read               # id or unique name
//	    day: 0
//	    expect:
//	      outcome: ok
//	      streak: 1
//	assertions:
//	  - type: habit_state
//	    habit: Read
//	    days: [0]
//	    streak: 1
//
// Actions: add, delete, toggle, select_week, reset_streaks, reset_defaults.
// Outcomes: ok, rejected, invalid, not_found, out_of_range.
//
// # Assertion Types
//
//   - habit_state: marked days, streak and congratulated flag of one habit
//   - habit_count: size of the collection
//   - milestone_count: number of notices delivered during the flow
//   - history: marked days stored for one habit under one week key
//
// # Deterministic Testing
//
// Every scenario gets a fresh in-memory SQLite store, a fixed clock set to
// noon UTC on the scenario's today, and sequential ids (h-1, h-2, ...), so
// traces compare byte for byte against golden files.
package harness
