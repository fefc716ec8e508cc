// Package query defines the result and error values that cross the
// coordinator boundary.
package query

import "fmt"

type ErrorCode int8

const (
	SQLError ErrorCode = iota
	Internal
)

func (c ErrorCode) String() string {
	switch c {
	case SQLError:
		return "sql error"
	case Internal:
		return "internal error"
	}
	return "unknown error"
}

// Error is a typed execution failure reported back to the caller.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the single outcome of one statement batch. Rows is the
// flat, line-oriented result shape: one "name = value" string per
// column per row, row boundaries discarded.
type Result struct {
	Rows []string
	Err  *Error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func ResultSet(rows []string) Result {
	return Result{Rows: rows}
}

func Fail(code ErrorCode, err error) Result {
	return Result{Err: &Error{Code: code, Err: err}}
}
