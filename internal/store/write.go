package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Conflict selects the SQLite conflict resolution algorithm applied to
// a forward insert or update.
type Conflict int

const (
	// ConflictNone uses the default algorithm: constraint violations fail.
	ConflictNone Conflict = iota
	// ConflictReplace deletes the conflicting row and retries the write.
	ConflictReplace
	// ConflictIgnore skips the conflicting row without an error.
	ConflictIgnore
)

// clause returns the OR clause for the conflict algorithm, or "".
func (c Conflict) clause() string {
	switch c {
	case ConflictReplace:
		return "OR REPLACE "
	case ConflictIgnore:
		return "OR IGNORE "
	default:
		return ""
	}
}

// Insert inserts one row built from values into table.
// Returns the new row's rowid and whether a row was actually created;
// with ConflictIgnore a conflicting insert reports inserted=false
// without an error.
//
// Column order in the generated statement is sorted by name so the
// same values always produce the same SQL text.
func (s *Store) Insert(ctx context.Context, table string, values map[string]any, conflict Conflict) (id int64, inserted bool, err error) {
	if len(values) == 0 {
		return 0, false, fmt.Errorf("insert into %s: no values", table)
	}

	columns := sortedColumns(values)
	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = values[col]
	}

	query := fmt.Sprintf(
		"INSERT %sINTO %s (%s) VALUES (%s)",
		conflict.clause(), table,
		strings.Join(columns, ", "),
		placeholders(len(columns)),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, false, fmt.Errorf("insert into %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("insert into %s: rows affected: %w", table, err)
	}
	if affected == 0 {
		return 0, false, nil
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("insert into %s: last insert id: %w", table, err)
	}

	return id, true, nil
}

// Update applies values to every row of table matching the predicate.
// An empty predicate updates all rows. Returns the affected row count;
// zero is a legitimate result, not an error.
func (s *Store) Update(ctx context.Context, table string, values map[string]any, where string, args []any, conflict Conflict) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("update %s: no values", table)
	}

	columns := sortedColumns(values)
	assignments := make([]string, len(columns))
	params := make([]any, 0, len(columns)+len(args))
	for i, col := range columns {
		assignments[i] = col + " = ?"
		params = append(params, values[col])
	}
	params = append(params, args...)

	query := fmt.Sprintf("UPDATE %s%s SET %s", conflict.clause(), table, strings.Join(assignments, ", "))
	if where != "" {
		query += " WHERE " + where
	}

	result, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s: rows affected: %w", table, err)
	}

	return affected, nil
}

// Delete removes every row of table matching the predicate.
// An empty predicate deletes all rows. Returns the affected row count.
func (s *Store) Delete(ctx context.Context, table, where string, args []any) (int64, error) {
	query := "DELETE FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: rows affected: %w", table, err)
	}

	return affected, nil
}

// Exec runs an arbitrary statement with positional arguments.
func (s *Store) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return result, nil
}

// sortedColumns returns the keys of values in lexical order.
func sortedColumns(values map[string]any) []string {
	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// placeholders returns "?, ?, ..." with n placeholders.
func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ", ")
}
