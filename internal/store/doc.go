// Package store wraps a SQLite handle with the write primitives the
// journal records against, plus the pre-mutation row snapshot reader.
//
// The store is deliberately thin: it owns no schema. Tables are created
// and owned by the caller; the journal only needs the primitives below:
//   - Insert/Update/Delete/Exec: forward writes with conflict policies
//   - Query: raw reads
//   - Snapshot: full-row capture (SELECT rowid, *) before destructive writes
//
// # Critical Patterns
//
// CP-1: Stable Column Order
//   - Snapshot always selects rowid first, then * in schema order
//   - Capture order and replay parameter order are therefore identical
//
// CP-2: Implicit Row Identity
//   - Every snapshot carries the SQLite rowid; WITHOUT ROWID tables
//     are unsupported by design
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
