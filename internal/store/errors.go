package store

import (
	"errors"
	"fmt"

	"github.com/roach88/schemaql/internal/dialect"
)

var (
	// ErrRecordNotFound is returned when an update or delete matches no row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnpersistedReference is returned when a statement binds the id of
	// a referenced record that has none yet.
	ErrUnpersistedReference = errors.New("referenced record is not persisted")

	// ErrDetached is returned for records that belong to no context.
	ErrDetached = errors.New("record has no context")

	// ErrNoIDColumn is returned when a loaded result has no id column.
	ErrNoIDColumn = errors.New("result has no id column")

	// ErrUnsupportedValue is returned for attributes the store cannot map
	// to a column value.
	ErrUnsupportedValue = errors.New("unsupported column value")
)

// Error is a driver error classified by the store's dialect.
type Error struct {
	Category dialect.Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsConstraintViolation reports whether err was classified as a constraint
// violation.
func IsConstraintViolation(err error) bool {
	return categoryOf(err) == dialect.CategoryConstraintViolation
}

// IsConnectivityLost reports whether err was classified as a lost or
// unusable connection.
func IsConnectivityLost(err error) bool {
	return categoryOf(err) == dialect.CategoryConnectivityLost
}

func categoryOf(err error) dialect.Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return dialect.CategoryUnknown
}

func (s *Store) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: s.dialect.Classify(err), Op: op, Err: err}
}
