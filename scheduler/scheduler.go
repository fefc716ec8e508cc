// Package scheduler tracks every client's transaction state and
// routes each client's jobs accordingly: into the worker pinned to the
// client's open transaction, or into the shared pool queue. It is the
// single authority on where a client's next job is delivered.
package scheduler

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gritdb/gritdb/coordinator"
	"github.com/gritdb/gritdb/query"
	"github.com/gritdb/gritdb/statements"
	"github.com/gritdb/gritdb/utils/log"
)

// Submitter is the producing side of the pool's job queue.
type Submitter interface {
	Submit(coordinator.Job)
}

type request struct {
	client uuid.UUID
	stmts  statements.Statements
	resp   chan query.Result
}

// clientState keeps the explicit routing entry for one client: the
// pinned channel while a transaction is open, the responder of the
// job currently in flight, and the submission-order backlog. At most
// one job per client is ever handed to the pool at a time.
type clientState struct {
	pinned   chan<- coordinator.Job
	inflight bool
	pending  chan query.Result
	backlog  []request
}

type Scheduler struct {
	queue    Submitter
	updates  chan coordinator.UpdateStateMessage
	requests chan request
	done     chan struct{}
	closed   chan struct{}
}

func New(queue Submitter) *Scheduler {
	return &Scheduler{
		queue:    queue,
		updates:  make(chan coordinator.UpdateStateMessage, 64),
		requests: make(chan request, 64),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
}

// Schedule submits one statement batch for client and returns the
// channel its single result arrives on. A client's batches are
// dispatched one at a time, in submission order.
func (s *Scheduler) Schedule(client uuid.UUID, stmts statements.Statements) <-chan query.Result {
	resp := make(chan query.Result, 1)
	s.requests <- request{client: client, stmts: stmts, resp: resp}
	return resp
}

// Stop switches Run into drain mode: no new jobs are dispatched and
// submissions are refused, but lifecycle updates from workers still
// emptying the queue are consumed, so no worker ever blocks on its
// send. Call Close once the pool has joined.
func (s *Scheduler) Stop() {
	close(s.done)
}

// Close ends the run loop. Only call it after every worker has exited.
func (s *Scheduler) Close() {
	close(s.closed)
}

// Run consumes submissions and worker lifecycle updates until Stop.
// All routing state lives on this one goroutine's stack; nothing here
// needs a lock.
func (s *Scheduler) Run() {
	clients := make(map[uuid.UUID]*clientState)

	for {
		select {
		case <-s.done:
			s.drain()
			return

		case req := <-s.requests:
			// A submission racing Stop is refused, not dispatched.
			select {
			case <-s.done:
				req.resp <- query.Fail(query.Internal, errors.New("scheduler shutting down"))
				continue
			default:
			}
			st := stateFor(clients, req.client)
			if st.inflight {
				st.backlog = append(st.backlog, req)
				continue
			}
			s.dispatch(st, req)

		case msg := <-s.updates:
			st := stateFor(clients, msg.Client)
			switch msg.Kind {
			case coordinator.TxnBegin:
				st.pinned = msg.Pinned
			case coordinator.Ready:
				s.next(st)
			case coordinator.TxnEnded, coordinator.TxnTimeout:
				// The pin is gone. A dispatch that raced the timeout
				// sits unread in the pinned buffer; its caller is told
				// so, and the client starts over from the shared queue.
				if msg.Kind == coordinator.TxnTimeout && st.inflight {
					log.Warn("client %s: job dropped by transaction timeout", msg.Client)
					st.pending <- query.Fail(query.Internal, errors.New("job dropped by transaction timeout"))
				}
				st.pinned = nil
				s.next(st)
			}
			if !st.inflight && st.pinned == nil && len(st.backlog) == 0 {
				delete(clients, msg.Client)
			}
		}
	}
}

// drain keeps the lifecycle channel flowing while workers finish the
// still-buffered queue, dispatching nothing. Late submissions are
// answered with a failure instead of being left to wait.
func (s *Scheduler) drain() {
	for {
		select {
		case <-s.closed:
			return
		case req := <-s.requests:
			req.resp <- query.Fail(query.Internal, errors.New("scheduler shutting down"))
		case <-s.updates:
		}
	}
}

func stateFor(clients map[uuid.UUID]*clientState, client uuid.UUID) *clientState {
	st, ok := clients[client]
	if !ok {
		st = &clientState{}
		clients[client] = st
	}
	return st
}

// next marks the client idle and dispatches its oldest backlogged
// request, if any.
func (s *Scheduler) next(st *clientState) {
	st.inflight = false
	st.pending = nil
	if len(st.backlog) == 0 {
		return
	}
	req := st.backlog[0]
	st.backlog = st.backlog[1:]
	s.dispatch(st, req)
}

func (s *Scheduler) dispatch(st *clientState, req request) {
	st.inflight = true
	st.pending = req.resp
	job := coordinator.Job{
		Client:     req.client,
		Statements: req.stmts,
		Responder:  req.resp,
		Scheduler:  s.updates,
	}
	if st.pinned != nil {
		st.pinned <- job
		return
	}
	s.queue.Submit(job)
}
