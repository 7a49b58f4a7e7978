// Package store provides SQLite-backed durable storage for batch run logs.
//
// The store records, per batch, every solved instance with its outcome:
//   - Batches: where the instances came from (exhaustive, random, files)
//   - Runs: instance, content-addressed instance ID, outcome, reason, matching
//
// # Critical Patterns
//
// Logical Ordering
//   - Runs are ordered by seq INTEGER (position in the batch), NEVER timestamps
//   - All queries include ORDER BY seq ASC (and batch id COLLATE BINARY)
//
// Idempotent Writes
//   - PRIMARY KEY (batch_id, seq) with ON CONFLICT DO NOTHING
//   - Re-running a seeded batch under the same batch id writes nothing new
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Instance IDs are computed by internal/ir using RFC 8785 canonical JSON and
// SHA-256 with domain separation.
package store
