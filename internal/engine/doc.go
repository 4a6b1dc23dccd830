// Package engine implements the habit store: the single owner of the habit
// collection and the only component that mutates it or talks to persistence.
//
// ARCHITECTURE:
//
// Single Writer:
// Every public operation takes the engine mutex, runs to completion and
// releases it before the next one starts. Callers on any goroutine see
// operations applied one at a time, in lock order.
//
// Mutation Flow:
// 1. Validate input (range, required fields, day lock)
// 2. Apply the change to the in-memory collection
// 3. Save the whole collection through the Repository (replace, not patch)
// 4. Run milestone detection; persist again if any habit was flagged
// 5. Release the lock, then deliver at most one milestone notice and any
//    persistence warnings to the registered handlers
//
// In-memory state is authoritative. A failed save never rolls back the
// mutation; it is logged, counted and reported as a PersistenceWarning.
//
// Every commit is stamped with a value from a monotonic Sequence so callers
// (and the scenario harness) can tell how many mutations have been applied.
package engine
