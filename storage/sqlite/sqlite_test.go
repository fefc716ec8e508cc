package sqlite_test

import (
	"database/sql/driver"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gritdb/gritdb/storage/sqlite"
)

func TestQueryRoundTrip(t *testing.T) {
	builder := sqlite.Builder(filepath.Join(t.TempDir(), "test.db"))
	conn, err := builder()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Exec("CREATE TABLE t (a INTEGER, b TEXT)"))
	require.NoError(t, conn.Exec("INSERT INTO t VALUES (1, 'one'), (2, 'two')"))

	stmt, err := conn.Prepare("SELECT a, b FROM t ORDER BY a")
	require.NoError(t, err)
	defer stmt.Close()

	rows, err := stmt.Query()
	require.NoError(t, err)
	defer rows.Close()

	assert.Equal(t, []string{"a", "b"}, rows.Columns())

	dest := make([]driver.Value, 2)
	require.NoError(t, rows.Next(dest))
	assert.EqualValues(t, 1, dest[0])

	require.NoError(t, rows.Next(dest))
	assert.EqualValues(t, 2, dest[0])

	assert.Equal(t, io.EOF, rows.Next(dest))
}

func TestPrepareErrorSurfaces(t *testing.T) {
	conn, err := sqlite.Builder(":memory:")()
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Prepare("SELECT FROM nothing AT ALL")
	assert.Error(t, err)
}

func TestBuilderHandsOutExclusiveConnections(t *testing.T) {
	// Two :memory: connections see independent databases, proving the
	// builder never shares a handle between calls.
	builder := sqlite.Builder(":memory:")
	first, err := builder()
	require.NoError(t, err)
	defer first.Close()
	second, err := builder()
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Exec("CREATE TABLE only_here (x INTEGER)"))
	assert.NoError(t, first.Exec("INSERT INTO only_here VALUES (1)"))
	assert.Error(t, second.Exec("INSERT INTO only_here VALUES (1)"))
}

func TestRollbackWithoutTransactionFails(t *testing.T) {
	conn, err := sqlite.Builder(":memory:")()
	require.NoError(t, err)
	defer conn.Close()

	// The coordinator rolls back on timeout best-effort; outside a
	// transaction sqlite refuses, and the error is simply discarded.
	assert.Error(t, conn.Exec("ROLLBACK TRANSACTION;"))
}
