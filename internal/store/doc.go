// Package store provides SQLite-backed storage for generation runs.
//
// A run records one manifest build: the model, the generation settings, the
// manifest hash, every typedef and every declaration. Runs are append-only.
//
// # Ordering
//
// Runs carry a logical seq assigned at insert time. All listings use
// ORDER BY seq ASC, id ASC COLLATE BINARY, never timestamps, so identical
// databases list identically. Run IDs are UUIDv7 and sort by creation time
// on their own as well.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
