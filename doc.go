// Package restorable wraps a SQLite database with a mutation-inversion
// journal: every tagged write synthesizes an equivalent inverse
// operation before or after it executes, and restoring a tag replays
// those inverses to undo the write without database transactions or
// savepoints.
//
// The journal is in-memory and scoped to one DB instance. It is not
// persisted across process restarts, and the forward write and the
// journal write are sequential, not atomic; both are documented
// limitations inherited from the design. Tables without a stable rowid
// (WITHOUT ROWID tables) are unsupported.
//
// A minimal session:
//
//	db, err := restorable.Open("app.db")
//	...
//	id, err := db.Insert(ctx, "t1", "items", map[string]any{"title": "a"})
//	...
//	n, err := db.Restore(ctx, "t1") // deletes the inserted row again
package restorable
