package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionsFromStart(t *testing.T) {
	tests := []struct {
		sql  string
		want State
	}{
		{"BEGIN", TxnOpened},
		{"begin;", TxnOpened},
		{"BEGIN TRANSACTION;", TxnOpened},
		{"BEGIN; INSERT INTO t VALUES (1);", TxnOpened},
		{"SELECT 1", Start},
		{"INSERT INTO t VALUES (1)", Start},
		{"COMMIT", Invalid},
		{"ROLLBACK", Invalid},
		{"definitely not sql", Start},
		{"", Start},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.sql).State(Start), "sql: %q", tt.sql)
	}
}

func TestTransitionsInsideTransaction(t *testing.T) {
	tests := []struct {
		sql  string
		want State
	}{
		{"COMMIT", TxnClosed},
		{"commit;", TxnClosed},
		{"END", TxnClosed},
		{"ROLLBACK", TxnClosed},
		{"ROLLBACK TRANSACTION;", TxnClosed},
		{"INSERT INTO t VALUES (1)", TxnOpened},
		{"SELECT 1", TxnOpened},
		{"BEGIN", Invalid},
		{"???", TxnOpened},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.sql).State(TxnOpened), "sql: %q", tt.sql)
	}
}

func TestTerminalPhasesStayInvalid(t *testing.T) {
	s := New("SELECT 1")
	assert.Equal(t, Invalid, s.State(TxnClosed))
	assert.Equal(t, Invalid, s.State(Invalid))
}

func TestClassificationUsesLeadingStatement(t *testing.T) {
	// Only the first statement of a batch decides the kind.
	assert.Equal(t, TxnClosed, New("COMMIT; SELECT 1;").State(TxnOpened))
	assert.Equal(t, TxnOpened, New("INSERT INTO t VALUES (1); COMMIT;").State(TxnOpened))
}
