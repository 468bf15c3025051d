// Package sqlparse classifies raw SQL write statements into a kind,
// target table and where-predicate, which is all the journal needs to
// capture pre-mutation state for an arbitrary statement.
//
// This is intentionally not a SQL parser. Classification is keyword
// and pattern based: enough for single-table INSERT/UPDATE/DELETE
// statements as issued against an embedded database. Statements with
// subqueries in the WHERE clause, multi-table syntax, or CTEs are out
// of scope; they classify as their leading keyword suggests but the
// extracted predicate may be wrong, so callers should keep tagged raw
// statements simple.
package sqlparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the classified statement kind.
type Kind int

const (
	// KindOther is any statement that is not a recognized write.
	KindOther Kind = iota
	// KindInsert covers INSERT and REPLACE statements.
	KindInsert
	// KindUpdate covers UPDATE statements, with or without OR clauses.
	KindUpdate
	// KindDelete covers DELETE FROM statements.
	KindDelete
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "other"
	}
}

// Statement is the classification result. Table is populated for
// insert, update and delete statements; Where only for update and
// delete, and is empty when the statement has no WHERE clause.
type Statement struct {
	Kind  Kind
	Table string
	Where string
}

// ParseError reports a statement whose kind was recognized but whose
// target table could not be extracted.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot classify statement: %s: %q", e.Reason, e.Text)
}

var (
	insertTableRe = regexp.MustCompile(`(?i)^(?:insert\s+(?:or\s+(?:rollback|abort|replace|fail|ignore)\s+)?into|replace\s+into)\s+([A-Za-z_][A-Za-z0-9_]*)\b`)
	updateTableRe = regexp.MustCompile(`(?i)^update\s+(?:or\s+(?:rollback|abort|replace|fail|ignore)\s+)?([A-Za-z_][A-Za-z0-9_]*)\s+set\b`)
	deleteTableRe = regexp.MustCompile(`(?i)^delete\s+from\s+([A-Za-z_][A-Za-z0-9_]*)\b`)
	whereRe       = regexp.MustCompile(`(?is)\bwhere\b\s*(.*)$`)
)

// Parser is the default statement classifier.
type Parser struct{}

// New creates a classifier.
func New() *Parser {
	return &Parser{}
}

// Classify classifies a raw statement. UPDATE and DELETE statements
// that do not yield a target table fail with a ParseError; statements
// of any other shape classify as KindOther without an error.
func (p *Parser) Classify(text string) (Statement, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimSuffix(trimmed, ";")
	trimmed = strings.TrimSpace(trimmed)

	switch leadingKeyword(trimmed) {
	case "INSERT", "REPLACE":
		m := insertTableRe.FindStringSubmatch(trimmed)
		if m == nil {
			return Statement{}, &ParseError{Text: text, Reason: "no target table in INSERT"}
		}
		return Statement{Kind: KindInsert, Table: m[1]}, nil

	case "UPDATE":
		m := updateTableRe.FindStringSubmatch(trimmed)
		if m == nil {
			return Statement{}, &ParseError{Text: text, Reason: "no target table in UPDATE"}
		}
		return Statement{Kind: KindUpdate, Table: m[1], Where: whereClause(trimmed)}, nil

	case "DELETE":
		m := deleteTableRe.FindStringSubmatch(trimmed)
		if m == nil {
			return Statement{}, &ParseError{Text: text, Reason: "no target table in DELETE"}
		}
		return Statement{Kind: KindDelete, Table: m[1], Where: whereClause(trimmed)}, nil
	}

	return Statement{Kind: KindOther}, nil
}

// leadingKeyword returns the first word of the statement, uppercased.
func leadingKeyword(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// whereClause returns the text after the first WHERE keyword, or "".
func whereClause(text string) string {
	m := whereRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
