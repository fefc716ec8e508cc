// Package storagetest provides in-memory storage.Conn fakes that
// record every statement they see, for coordinator and scheduler
// tests.
package storagetest

import (
	"database/sql/driver"
	"io"
	"sync"

	"github.com/gritdb/gritdb/storage"
)

// ResultSet is the canned answer a fake connection returns for a
// given statement text.
type ResultSet struct {
	Cols []string
	Vals [][]driver.Value
}

// Conn is a storage.Conn double. Statements run through Prepare and
// Exec are recorded in arrival order; FailOn forces errors, Results
// serves canned rows, and PrepareGate (when set) is called before a
// statement executes so tests can hold workers at a barrier.
type Conn struct {
	FailOn      map[string]error
	Results     map[string]ResultSet
	PrepareGate func(query string)

	mu         sync.Mutex
	statements []string
	closed     bool
}

func (c *Conn) record(query string) {
	c.mu.Lock()
	c.statements = append(c.statements, query)
	c.mu.Unlock()
}

// Statements returns a copy of everything executed so far.
func (c *Conn) Statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.statements...)
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) Prepare(query string) (storage.Stmt, error) {
	if c.PrepareGate != nil {
		c.PrepareGate(query)
	}
	c.record(query)
	if err, ok := c.FailOn[query]; ok {
		return nil, err
	}
	rs := c.Results[query]
	return &stmt{rs: rs}, nil
}

func (c *Conn) Exec(query string) error {
	c.record(query)
	if err, ok := c.FailOn[query]; ok {
		return err
	}
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type stmt struct {
	rs ResultSet
}

func (s *stmt) Query() (storage.Rows, error) {
	return &rows{rs: s.rs}, nil
}

func (s *stmt) Close() error { return nil }

type rows struct {
	rs ResultSet
	i  int
}

func (r *rows) Columns() []string { return r.rs.Cols }

func (r *rows) Next(dest []driver.Value) error {
	if r.i >= len(r.rs.Vals) {
		return io.EOF
	}
	copy(dest, r.rs.Vals[r.i])
	r.i++
	return nil
}

func (r *rows) Close() error { return nil }

// Factory builds fake connections and keeps them for inspection.
type Factory struct {
	// FailAt makes the FailAt-th builder call (1-based) return Err.
	FailAt int
	Err    error
	// Configure is applied to each new Conn before it is handed out.
	Configure func(*Conn)

	mu    sync.Mutex
	conns []*Conn
}

// Builder returns the storage.ConnBuilder handing out this factory's
// fakes.
func (f *Factory) Builder() storage.ConnBuilder {
	return func() (storage.Conn, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.FailAt > 0 && len(f.conns)+1 == f.FailAt {
			return nil, f.Err
		}
		c := &Conn{}
		if f.Configure != nil {
			f.Configure(c)
		}
		f.conns = append(f.conns, c)
		return c, nil
	}
}

// Conns returns every connection handed out so far.
func (f *Factory) Conns() []*Conn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Conn(nil), f.conns...)
}

func (f *Factory) Calls() int {
	return len(f.Conns())
}
