package dialect

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// Category is the error taxonomy the execution layer reacts to.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryConstraintViolation
	CategoryConnectivityLost
	CategoryDeadlock
)

func (c Category) String() string {
	switch c {
	case CategoryConstraintViolation:
		return "constraint-violation"
	case CategoryConnectivityLost:
		return "connectivity-lost"
	case CategoryDeadlock:
		return "deadlock"
	default:
		return "unknown"
	}
}

// CodedError is implemented by driver errors (or execution-layer wrappers)
// that expose a numeric vendor code.
type CodedError interface {
	error
	VendorCode() int
}

// StateError is implemented by driver errors that expose a five character
// SQLSTATE.
type StateError interface {
	error
	SQLState() string
}

// codeTable classifies numeric vendor codes.
type codeTable map[int]Category

func vendorCode(err error) (int, bool) {
	var ce CodedError
	if errors.As(err, &ce) {
		return ce.VendorCode(), true
	}
	return 0, false
}

func sqlState(err error) (string, bool) {
	var se StateError
	if errors.As(err, &se) {
		return se.SQLState(), true
	}
	return "", false
}

// classifyState applies the SQLSTATE classes every vendor agrees on.
func classifyState(state string) Category {
	switch {
	case state == "40001" || state == "40P01":
		return CategoryDeadlock
	case strings.HasPrefix(state, "23"):
		return CategoryConstraintViolation
	case strings.HasPrefix(state, "08"), strings.HasPrefix(state, "57P"):
		return CategoryConnectivityLost
	}
	return CategoryUnknown
}

// classifyWith runs the shared classification order: broken connection,
// vendor code table, SQLSTATE.
func classifyWith(err error, codes codeTable) Category {
	if err == nil {
		return CategoryUnknown
	}
	if errors.Is(err, driver.ErrBadConn) {
		return CategoryConnectivityLost
	}
	if code, ok := vendorCode(err); ok {
		if c, known := codes[code]; known {
			return c
		}
	}
	if state, ok := sqlState(err); ok {
		return classifyState(state)
	}
	return CategoryUnknown
}
