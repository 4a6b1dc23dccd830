// Package store provides the key-value substrate the habit engine persists to.
//
// Three interchangeable backends implement KV:
//   - Store: SQLite file (default), one row per key in the kv table
//   - RedisKV: a Redis server, one string per key under a prefix
//   - MemoryKV: process memory, for tests and throwaway sessions
//
// HabitRepository layers the engine's records on top of any KV:
//   - habits: the whole collection as JSON, replaced wholesale on each save
//   - darkMode: display preference
//   - seenMilestones: ledger of every milestone crossing, per habit
//
// # Atomicity
//
// Each save is a single Set of a single key, so a reader never observes a
// partially written collection. DebouncedRepository batches rapid saves into
// one write after a quiet period; the last collection handed to it wins.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection: one writer at a time
package store
