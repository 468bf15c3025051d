package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RowImage is the captured pre-mutation state of one row: its rowid and
// every declared column, in the order the schema reports them (CP-1).
// Values are string-serialized; SQL NULL is preserved as an invalid
// NullString. Column affinity converts the strings back on replay.
type RowImage struct {
	Identity string
	Columns  []string
	Values   []sql.NullString
}

// Value returns the captured value of a column by name.
func (r RowImage) Value(column string) (sql.NullString, bool) {
	for i, col := range r.Columns {
		if col == column {
			return r.Values[i], true
		}
	}
	return sql.NullString{}, false
}

// Snapshot reads the full column set of every row of table matching the
// predicate, before a destructive or overwriting operation executes.
// An empty predicate captures all rows; zero matches return an empty
// slice, not an error. Snapshot has no side effects.
func (s *Store) Snapshot(ctx context.Context, table, where string, args []any) ([]RowImage, error) {
	query := fmt.Sprintf("SELECT rowid, * FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: columns: %w", table, err)
	}
	if len(columns) < 2 {
		return nil, fmt.Errorf("snapshot %s: table has no columns", table)
	}

	images := []RowImage{}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("snapshot %s: scan: %w", table, err)
		}

		// Column 0 is the rowid we prepended; the rest is the
		// declared column set in schema order.
		images = append(images, RowImage{
			Identity: values[0].String,
			Columns:  columns[1:],
			Values:   values[1:],
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot %s: iterate: %w", table, err)
	}

	return images, nil
}
