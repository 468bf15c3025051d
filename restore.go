package restorable

import (
	"context"
	"errors"
)

// Restore replays and discards the inverse sequence recorded under
// tag, executing each step against the store in recorded order, and
// returns the number of steps executed. An unknown tag returns 0 with
// no store access.
//
// The tag is consumed atomically with the lookup: a second Restore for
// the same tag sees it as absent, even if this call fails mid-way. A
// step failure aborts the remaining steps and surfaces with the count
// already executed; partial restores are reported, never swallowed.
func (db *DB) Restore(ctx context.Context, tag string) (int, error) {
	if err := validateTag(tag); err != nil {
		return 0, err
	}

	seq, ok, _ := db.ledger.Take(tag)
	if !ok {
		return 0, nil
	}

	executed := 0
	for _, step := range seq {
		if _, err := db.store.Exec(ctx, step.SQL, step.Args); err != nil {
			return executed, wrapStore("inverse step failed", tag, "", err)
		}
		executed++
	}

	db.log.Debug().Str("tag", tag).Int("steps", executed).Msg("restored inverse sequence")
	return executed, nil
}

// RestoreTags restores each tag in iteration order and returns the
// summed step count. The bulk operation is best-effort per tag: a
// failure on one tag's steps does not prevent attempting subsequent
// tags, and all failures are joined into the returned error.
func (db *DB) RestoreTags(ctx context.Context, tags []string) (int, error) {
	total := 0
	var errs []error
	for _, tag := range tags {
		n, err := db.Restore(ctx, tag)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// RestoreAll restores a snapshot of all currently recorded tags.
func (db *DB) RestoreAll(ctx context.Context) (int, error) {
	return db.RestoreTags(ctx, db.Tags())
}
