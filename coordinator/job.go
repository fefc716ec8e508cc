package coordinator

import (
	"github.com/google/uuid"

	"github.com/gritdb/gritdb/query"
	"github.com/gritdb/gritdb/statements"
)

// Job is one unit of client work. Ownership moves into the queue on
// submission; exactly one worker consumes it, answers on Responder
// once, and reports exactly one lifecycle transition on Scheduler.
type Job struct {
	Client     uuid.UUID
	Statements statements.Statements

	// Responder receives the job's single result. Give it capacity 1:
	// delivery is a non-blocking send, so a full, nil or abandoned
	// responder drops the result rather than wedging a worker.
	Responder chan<- query.Result

	// Scheduler receives this job's lifecycle notifications. It must
	// stay reachable for the pool's lifetime; a send that cannot
	// proceed because the channel was closed is an invariant violation
	// and takes the worker slot down.
	Scheduler chan<- UpdateStateMessage
}

func (j Job) respond(r query.Result) {
	select {
	case j.Responder <- r:
	default:
	}
}
