package coordinator

import "github.com/eapache/channels"

// JobQueue is the unbounded multi-producer queue feeding the pool.
// Submitting into it is the only way work enters the coordinator.
// There is no backpressure: an overloaded pool cannot signal callers
// to slow down.
type JobQueue struct {
	ch *channels.InfiniteChannel
}

func newJobQueue() *JobQueue {
	return &JobQueue{ch: channels.NewInfiniteChannel()}
}

func (q *JobQueue) Submit(j Job) {
	q.ch.In() <- j
}

// Close marks the end of submissions. Workers drain whatever is
// buffered and then exit; this is the pool's shutdown path.
func (q *JobQueue) Close() {
	q.ch.Close()
}

func (q *JobQueue) out() <-chan interface{} {
	return q.ch.Out()
}
