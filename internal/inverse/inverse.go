package inverse

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/yaa110/restorable/internal/store"
)

// DefaultIdentityColumn is the implicit SQLite row identifier used to
// target inverse statements when the caller names no alias column.
const DefaultIdentityColumn = "rowid"

// Step is one executable inverse action: a statement template and its
// positional parameters, in placeholder declaration order.
type Step struct {
	SQL  string
	Args []any
}

// Sequence is an ordered list of steps. Empty means the forward
// operation affected nothing and restoring is a no-op. Replay must
// preserve the recorded order exactly.
type Sequence []Step

// DeleteByIdentity returns the single-step inverse of an insert:
// delete the newly created row by its identity value.
func DeleteByIdentity(table, idColumn string, identity any) Sequence {
	return Sequence{{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, idColumn),
		Args: []any{identity},
	}}
}

// OverwriteRestore returns the single UPDATE step that restores a row
// replaced by a conflict-resolving upsert. Every captured column except
// the identity column is restored; the identity value is appended as
// the match key (CP-3).
func OverwriteRestore(table, idColumn string, img store.RowImage) Step {
	assignments := make([]string, 0, len(img.Columns))
	args := make([]any, 0, len(img.Columns)+1)
	for i, col := range img.Columns {
		if col == idColumn {
			continue
		}
		assignments = append(assignments, col+" = ?")
		args = append(args, nullableArg(img.Values[i]))
	}
	args = append(args, identityArg(idColumn, img))

	return Step{
		SQL:  fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(assignments, ", "), idColumn),
		Args: args,
	}
}

// RestoreRows returns one UPDATE step per captured row, in capture
// order, each restoring all columns except the identity column and
// keyed by that row's captured identity value. The inverse of an
// update.
func RestoreRows(table, idColumn string, images []store.RowImage) Sequence {
	seq := make(Sequence, 0, len(images))
	for _, img := range images {
		seq = append(seq, OverwriteRestore(table, idColumn, img))
	}
	return seq
}

// ReinsertRows returns one INSERT OR REPLACE step per captured row, in
// capture order, carrying the full column set. The rowid is included in
// the column list so row identity survives the round trip. The inverse
// of a delete.
func ReinsertRows(table string, images []store.RowImage) Sequence {
	seq := make(Sequence, 0, len(images))
	for _, img := range images {
		columns := make([]string, 0, len(img.Columns)+1)
		marks := make([]string, 0, len(img.Columns)+1)
		args := make([]any, 0, len(img.Columns)+1)

		columns = append(columns, DefaultIdentityColumn)
		marks = append(marks, "?")
		args = append(args, img.Identity)

		for i, col := range img.Columns {
			columns = append(columns, col)
			marks = append(marks, "?")
			args = append(args, nullableArg(img.Values[i]))
		}

		seq = append(seq, Step{
			SQL: fmt.Sprintf(
				"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
				table, strings.Join(columns, ", "), strings.Join(marks, ", "),
			),
			Args: args,
		})
	}
	return seq
}

// identityArg resolves the match-key value for a captured row: the
// implicit rowid, or the captured value of the alias column.
func identityArg(idColumn string, img store.RowImage) any {
	if idColumn == DefaultIdentityColumn {
		return img.Identity
	}
	if v, ok := img.Value(idColumn); ok {
		return nullableArg(v)
	}
	return img.Identity
}

// nullableArg converts a captured value to a statement parameter,
// preserving SQL NULL.
func nullableArg(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}
