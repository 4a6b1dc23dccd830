// Package habit defines the habit entity and the pure rules that govern it.
//
// A habit carries a seven-day completion grid for the week currently on
// display (index 0 is Sunday, index 6 is Saturday) and a history of every
// grid ever edited, keyed by the Sunday that starts the week.
//
// # Rules
//
//   - Streak: the longest contiguous run of completed days inside one grid.
//     Streaks never continue across weeks.
//   - Day lock: a day cannot be marked complete once any later day of the same
//     week is already marked. Unmarking is always allowed.
//   - Milestone: a streak that is a positive multiple of 7 produces exactly
//     one congratulatory notice per crossing, tracked by the Congratulated flag.
//
// Everything in this package is deterministic and free of I/O. The engine
// package owns mutation, persistence and notification.
package habit
