package coordinator

import (
	"database/sql/driver"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/gritdb/gritdb/metrics"
	"github.com/gritdb/gritdb/query"
	"github.com/gritdb/gritdb/statements"
	"github.com/gritdb/gritdb/storage"
	"github.com/gritdb/gritdb/utils/log"
)

// txnTimeout bounds how long a worker stays pinned to an interactive
// transaction. It is measured once at TxnBegin and never extended by
// follow-up statements. A var only so tests can shorten the wait; it
// is not configurable.
var txnTimeout = 5 * time.Second

// pinnedBacklog sizes the private per-transaction channel. It only
// needs to absorb a dispatch racing the transaction's end.
const pinnedBacklog = 16

type worker struct {
	id    int
	conn  storage.Conn
	queue *JobQueue
}

// run serves jobs until the shared queue closes and drains, which is
// the pool's shutdown path. Within one worker jobs execute strictly
// sequentially.
func (w *worker) run() {
	for v := range w.queue.out() {
		job := v.(Job)
		log.Debug("worker %d: executing job for client %s", w.id, job.Client)

		if job.Statements.State(statements.Start) == statements.TxnOpened {
			w.handleTransaction(job)
		} else {
			// Every other phase lands here, invalid ones included: the
			// storage engine reports its own errors.
			res := w.performOneshot(job.Statements)
			job.respond(res)
			job.Scheduler <- UpdateStateMessage{Kind: Ready, Client: job.Client}
			metrics.JobsProcessed.WithLabelValues("oneshot", metrics.Outcome(res.OK())).Inc()
		}

		log.Debug("worker %d: job finished", w.id)
	}
}

// performOneshot prepares and runs one batch on the private
// connection, flattening every column of every row into the
// line-oriented result shape.
func (w *worker) performOneshot(stmts statements.Statements) query.Result {
	prepared, err := w.conn.Prepare(stmts.SQL)
	if err != nil {
		return query.Fail(query.SQLError, errors.Wrap(err, "prepare"))
	}
	defer prepared.Close()

	rows, err := prepared.Query()
	if err != nil {
		return query.Fail(query.SQLError, errors.Wrap(err, "query"))
	}
	defer rows.Close()

	cols := rows.Columns()
	dest := make([]driver.Value, len(cols))
	var result []string
	for {
		err := rows.Next(dest)
		if err == io.EOF {
			break
		}
		if err != nil {
			return query.Fail(query.SQLError, errors.Wrap(err, "reading row"))
		}
		for i, name := range cols {
			result = append(result, fmt.Sprintf("%s = %s", name, renderValue(dest[i])))
		}
	}

	return query.ResultSet(result)
}

// renderValue flattens one column value. sqlite hands TEXT back as
// []byte.
func renderValue(v driver.Value) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// handleTransaction runs an interactive transaction pinned to this
// worker: announce TxnBegin with the private channel, then loop over
// statements arriving on it under one absolute deadline. The
// transaction ends with exactly one of TxnEnded or TxnTimeout.
func (w *worker) handleTransaction(job Job) {
	pinned := make(chan Job, pinnedBacklog)
	job.Scheduler <- UpdateStateMessage{Kind: TxnBegin, Client: job.Client, Pinned: pinned}
	metrics.TransactionsBegun.Inc()

	timer := time.NewTimer(txnTimeout)
	defer timer.Stop()

	cur := job
	for {
		res := w.performOneshot(cur.Statements)
		cur.respond(res)

		// A failed execution never closes the transaction, even when
		// the batch itself said COMMIT.
		if cur.Statements.State(statements.TxnOpened) == statements.TxnClosed && res.OK() {
			job.Scheduler <- UpdateStateMessage{Kind: TxnEnded, Client: job.Client}
			metrics.JobsProcessed.WithLabelValues("transaction", "ok").Inc()
			metrics.TransactionsClosed.WithLabelValues("commit").Inc()
			return
		}

		// Ready goes out before the wait begins, so a dispatch and the
		// firing timeout can both be in flight; a job arriving after
		// the timeout won is left in the pinned buffer and dropped
		// with the transaction.
		job.Scheduler <- UpdateStateMessage{Kind: Ready, Client: job.Client}
		metrics.JobsProcessed.WithLabelValues("transaction", metrics.Outcome(res.OK())).Inc()

		select {
		case next := <-pinned:
			cur.Statements = next.Statements
			cur.Responder = next.Responder
		case <-timer.C:
			log.Warn("worker %d: transaction for client %s timed out, rolling back", w.id, job.Client)
			_ = w.conn.Exec("ROLLBACK TRANSACTION;")
			job.Scheduler <- UpdateStateMessage{Kind: TxnTimeout, Client: job.Client}
			metrics.TransactionsClosed.WithLabelValues("timeout").Inc()
			return
		}
	}
}
