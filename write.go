package restorable

import (
	"context"
	"database/sql"

	"github.com/yaa110/restorable/internal/inverse"
	"github.com/yaa110/restorable/internal/store"
	"github.com/yaa110/restorable/sqlparse"
)

// Insert inserts one row and records a delete-by-rowid inverse under
// tag. If the store creates no row, nothing is recorded and any prior
// entry for tag is left untouched. Returns the new row's rowid.
func (db *DB) Insert(ctx context.Context, tag, table string, values map[string]any) (int64, error) {
	if err := validateTag(tag); err != nil {
		return 0, err
	}

	id, inserted, err := db.store.Insert(ctx, table, values, store.ConflictNone)
	if err != nil {
		return 0, wrapStore("forward insert", tag, table, err)
	}
	if !inserted {
		return id, nil
	}

	db.record(tag, inverse.DeleteByIdentity(table, DefaultIdentityColumn, id))
	return id, nil
}

// Upsert inserts one row with REPLACE conflict resolution and records
// an inverse that fully recovers any overwritten row. idColumn names
// the identity column the upsert conflicts on; empty means the
// implicit rowid.
//
// When a row already holds the incoming identity value, the inverse is
// a single UPDATE restoring every non-identity column of that row.
// When no such row exists the upsert degrades to a plain insert and
// the inverse is a delete by identity. Nothing is recorded if the
// store creates no row.
func (db *DB) Upsert(ctx context.Context, tag, table string, values map[string]any, idColumn string) (int64, error) {
	if err := validateTag(tag); err != nil {
		return 0, err
	}
	if idColumn == "" {
		idColumn = DefaultIdentityColumn
	}

	// Snapshot the row currently holding the target identity, using
	// the identity value taken from the incoming values. Must happen
	// before the forward write executes.
	var overwritten []store.RowImage
	idValue, hasID := values[idColumn]
	if hasID {
		var err error
		overwritten, err = db.store.Snapshot(ctx, table, idColumn+" = ?", []any{idValue})
		if err != nil {
			return 0, wrapStore("snapshot before upsert", tag, table, err)
		}
	}

	id, inserted, err := db.store.Insert(ctx, table, values, store.ConflictReplace)
	if err != nil {
		return 0, wrapStore("forward upsert", tag, table, err)
	}
	if !inserted {
		return id, nil
	}

	var seq inverse.Sequence
	switch {
	case len(overwritten) > 0:
		seq = inverse.Sequence{inverse.OverwriteRestore(table, idColumn, overwritten[0])}
	case hasID && idColumn != DefaultIdentityColumn:
		seq = inverse.DeleteByIdentity(table, idColumn, idValue)
	default:
		seq = inverse.DeleteByIdentity(table, DefaultIdentityColumn, id)
	}

	db.record(tag, seq)
	return id, nil
}

// Update applies values to every row matching the predicate and
// records one UPDATE-restore step per affected row under tag. A
// predicate matching zero rows records an empty sequence, which still
// replaces any prior entry for tag: update reports failure only
// through its affected-row count. Returns the affected count.
func (db *DB) Update(ctx context.Context, tag, table string, values map[string]any, where string, args ...any) (int64, error) {
	if err := validateTag(tag); err != nil {
		return 0, err
	}

	images, err := db.store.Snapshot(ctx, table, where, args)
	if err != nil {
		return 0, wrapStore("snapshot before update", tag, table, err)
	}

	count, err := db.store.Update(ctx, table, values, where, args, store.ConflictNone)
	if err != nil {
		return 0, wrapStore("forward update", tag, table, err)
	}

	db.record(tag, inverse.RestoreRows(table, DefaultIdentityColumn, images))
	return count, nil
}

// Delete removes every row matching the predicate and records one
// INSERT OR REPLACE step per removed row under tag, carrying the full
// column set including the rowid. Always recorded, even when the
// predicate matched nothing. Returns the affected count.
func (db *DB) Delete(ctx context.Context, tag, table, where string, args ...any) (int64, error) {
	if err := validateTag(tag); err != nil {
		return 0, err
	}

	images, err := db.store.Snapshot(ctx, table, where, args)
	if err != nil {
		return 0, wrapStore("snapshot before delete", tag, table, err)
	}

	count, err := db.store.Delete(ctx, table, where, args)
	if err != nil {
		return 0, wrapStore("forward delete", tag, table, err)
	}

	db.record(tag, inverse.ReinsertRows(table, images))
	return count, nil
}

// Exec executes a raw write statement and records its inverse under
// tag. The statement is classified first; update and delete reuse the
// snapshot algorithms with args as the predicate parameters, so any
// values in the SET clause of a raw update must be inline literals.
// Inserts execute first and invert by the generated rowid. Statements
// of any other kind execute without recording, leaving the ledger
// untouched.
func (db *DB) Exec(ctx context.Context, tag, statement string, args ...any) (sql.Result, error) {
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	stmt, err := db.classifier.Classify(statement)
	if err != nil {
		return nil, wrapParse(tag, err)
	}

	switch stmt.Kind {
	case sqlparse.KindUpdate:
		return db.execCaptured(ctx, tag, statement, args, stmt, false)

	case sqlparse.KindDelete:
		return db.execCaptured(ctx, tag, statement, args, stmt, true)

	case sqlparse.KindInsert:
		result, err := db.store.Exec(ctx, statement, args)
		if err != nil {
			return nil, wrapStore("forward raw insert", tag, "", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, wrapStore("raw insert affected count", tag, "", err)
		}
		if affected == 0 {
			return result, nil
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, wrapStore("raw insert identity", tag, "", err)
		}
		db.record(tag, inverse.DeleteByIdentity(stmt.Table, DefaultIdentityColumn, id))
		return result, nil

	default:
		// Unsupported kind: execute without capture; the ledger entry
		// for tag is simply absent or unchanged.
		result, err := db.store.Exec(ctx, statement, args)
		if err != nil {
			return nil, wrapStore("forward raw statement", tag, "", err)
		}
		return result, nil
	}
}

// execCaptured runs the shared snapshot-execute-record path for raw
// update and delete statements.
func (db *DB) execCaptured(ctx context.Context, tag, statement string, args []any, stmt sqlparse.Statement, isDelete bool) (sql.Result, error) {
	images, err := db.store.Snapshot(ctx, stmt.Table, stmt.Where, args)
	if err != nil {
		return nil, wrapStore("snapshot before raw "+stmt.Kind.String(), tag, stmt.Table, err)
	}

	result, err := db.store.Exec(ctx, statement, args)
	if err != nil {
		return nil, wrapStore("forward raw "+stmt.Kind.String(), tag, stmt.Table, err)
	}

	if isDelete {
		db.record(tag, inverse.ReinsertRows(stmt.Table, images))
	} else {
		db.record(tag, inverse.RestoreRows(stmt.Table, DefaultIdentityColumn, images))
	}
	return result, nil
}
