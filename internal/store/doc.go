// Package store provides SQLite-backed storage for synthesized updaters.
//
// Each synth run is a build identified by a UUIDv7. Every updater the
// build produces is recorded as an artifact row holding its rendered code
// and its canonical JSON structure.
//
// # Idempotency
//
// Artifacts are content addressed: UNIQUE(component, category, hash).
// Re-synthesizing unchanged tables records nothing new, so the history of
// a component only grows when its updater actually changes.
//
// # Ordering
//
// All queries order by seq ASC, id ASC. seq comes from a logical Clock
// resumed from the highest recorded value, never from wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
