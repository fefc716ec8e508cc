// Package statements classifies statement batches for transaction
// coordination. Classification looks only at the batch's leading
// statement kind; everything else about the SQL is opaque here and
// left to the storage engine.
package statements

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// State is a batch's derived position within a transaction.
type State int8

const (
	Start State = iota
	TxnOpened
	TxnClosed
	// Invalid is the explicit catch-all: sequences the transaction
	// grammar has no answer for (COMMIT with nothing open, nested
	// BEGIN). The coordinator routes these like any other batch and
	// lets the storage engine produce the error.
	Invalid
)

func (s State) String() string {
	switch s {
	case Start:
		return "Start"
	case TxnOpened:
		return "TxnOpened"
	case TxnClosed:
		return "TxnClosed"
	}
	return "Invalid"
}

type kind int8

const (
	kindOther kind = iota
	kindBegin
	kindCommit
	kindRollback
)

// Statements is an immutable batch of SQL text plus its
// transaction-control classification.
type Statements struct {
	SQL  string
	kind kind
}

func New(sql string) Statements {
	return Statements{SQL: sql, kind: classify(sql)}
}

func classify(sql string) kind {
	lead := leadingStatement(sql)

	tree, err := sqlparser.Parse(lead)
	if err == nil {
		switch tree.(type) {
		case *sqlparser.Begin:
			return kindBegin
		case *sqlparser.Commit:
			return kindCommit
		case *sqlparser.Rollback:
			return kindRollback
		}
		return kindOther
	}

	// The parser speaks MySQL; sqlite spellings like BEGIN TRANSACTION
	// or END fall through to keyword matching.
	switch leadingKeyword(lead) {
	case "BEGIN":
		return kindBegin
	case "COMMIT", "END":
		return kindCommit
	case "ROLLBACK":
		return kindRollback
	}
	return kindOther
}

func leadingStatement(sql string) string {
	if i := strings.IndexByte(sql, ';'); i >= 0 {
		return sql[:i]
	}
	return sql
}

func leadingKeyword(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// State is the pure phase-transition function: given the phase a
// client entered this batch with, it yields the phase the batch leaves
// the client in. Nothing is stored; callers re-derive on demand.
func (s Statements) State(entry State) State {
	switch entry {
	case Start:
		switch s.kind {
		case kindBegin:
			return TxnOpened
		case kindCommit, kindRollback:
			return Invalid
		}
		return Start
	case TxnOpened:
		switch s.kind {
		case kindCommit, kindRollback:
			// A client-issued rollback is still a clean close.
			return TxnClosed
		case kindBegin:
			return Invalid
		}
		return TxnOpened
	}
	return Invalid
}
