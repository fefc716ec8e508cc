// Package storage defines the synchronous handle the coordinator
// holds onto the storage engine. The shapes mirror database/sql/driver
// so a raw driver connection satisfies them with almost no adapter.
package storage

import "database/sql/driver"

// Conn is one exclusive handle onto the storage engine. A Conn belongs
// to a single worker for that worker's whole lifetime, so
// implementations need no internal locking.
type Conn interface {
	Prepare(query string) (Stmt, error)
	Exec(query string) error
	Close() error
}

type Stmt interface {
	Query() (Rows, error)
	Close() error
}

type Rows interface {
	Columns() []string
	// Next fills dest with the next row's column values and returns
	// io.EOF once the result set is exhausted.
	Next(dest []driver.Value) error
	Close() error
}

// ConnBuilder hands out a fresh Conn on every call. It must be safe
// for concurrent use and must never return a Conn shared with another
// call.
type ConnBuilder func() (Conn, error)
