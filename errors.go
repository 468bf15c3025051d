package restorable

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/yaa110/restorable/sqlparse"
)

// ErrorCode categorizes journal errors.
type ErrorCode string

const (
	// CodeInvalidArgument indicates a null or empty tag.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeParse indicates a raw statement could not be classified when
	// classification was required.
	CodeParse ErrorCode = "PARSE_ERROR"

	// CodeConstraint indicates the store rejected a statement with a
	// constraint violation (e.g. a uniqueness conflict).
	CodeConstraint ErrorCode = "CONSTRAINT_VIOLATION"

	// CodeStore indicates any other store failure on a forward or
	// inverse statement.
	CodeStore ErrorCode = "STORE_FAILURE"
)

// Error represents a journal error with structured context. Restoring
// an unknown tag is NOT an error; it is a no-op returning zero.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Tag identifies the affected tag, when one was supplied.
	Tag string

	// Table identifies the affected table, when known.
	Table string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Tag != "" && e.Table != "":
		return fmt.Sprintf("%s: %s (tag=%s, table=%s)", e.Code, msg, e.Tag, e.Table)
	case e.Tag != "":
		return fmt.Sprintf("%s: %s (tag=%s)", e.Code, msg, e.Tag)
	case e.Table != "":
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, msg, e.Table)
	default:
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether err is an invalid-argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	return hasCode(err, CodeInvalidArgument)
}

// IsParseError reports whether err is a classification error.
func IsParseError(err error) bool {
	if hasCode(err, CodeParse) {
		return true
	}
	var pe *sqlparse.ParseError
	return errors.As(err, &pe)
}

// IsConstraintViolation reports whether err is a constraint violation.
func IsConstraintViolation(err error) bool {
	return hasCode(err, CodeConstraint)
}

// IsStoreFailure reports whether err is a store failure of any kind,
// constraint violations included.
func IsStoreFailure(err error) bool {
	return hasCode(err, CodeStore) || hasCode(err, CodeConstraint)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// newInvalidArgument creates an invalid-argument error.
func newInvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// wrapStore wraps a store error, promoting SQLite constraint failures
// to CodeConstraint so callers can tell uniqueness conflicts apart
// from I/O-level failures.
func wrapStore(message, tag, table string, err error) *Error {
	code := CodeStore
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		code = CodeConstraint
	}
	return &Error{Code: code, Message: message, Tag: tag, Table: table, Err: err}
}

// wrapParse wraps a classifier error.
func wrapParse(tag string, err error) *Error {
	return &Error{Code: CodeParse, Message: "classify raw statement", Tag: tag, Err: err}
}
