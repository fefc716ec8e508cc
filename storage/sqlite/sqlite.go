// Package sqlite backs storage.Conn with mattn/go-sqlite3's raw
// driver, one exclusive connection per call.
package sqlite

import (
	"database/sql/driver"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/gritdb/gritdb/storage"
)

// Builder returns a storage.ConnBuilder that opens a fresh sqlite
// connection against dsn on every call.
func Builder(dsn string) storage.ConnBuilder {
	drv := &sqlite3.SQLiteDriver{}
	return func() (storage.Conn, error) {
		c, err := drv.Open(dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "opening sqlite database %q", dsn)
		}
		return &conn{c: c.(*sqlite3.SQLiteConn)}, nil
	}
}

type conn struct {
	c *sqlite3.SQLiteConn
}

func (c *conn) Prepare(query string) (storage.Stmt, error) {
	s, err := c.c.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &stmt{s: s}, nil
}

func (c *conn) Exec(query string) error {
	_, err := c.c.Exec(query, nil)
	return err
}

func (c *conn) Close() error {
	return c.c.Close()
}

type stmt struct {
	s driver.Stmt
}

func (s *stmt) Query() (storage.Rows, error) {
	// driver.Rows already carries Columns/Next/Close.
	r, err := s.s.Query(nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *stmt) Close() error {
	return s.s.Close()
}
