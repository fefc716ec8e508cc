// Package coordinator multiplexes client sessions over a fixed pool
// of workers, each bound to one exclusive storage connection. Oneshot
// batches run on any idle worker; an interactive transaction pins its
// client to one worker until the transaction closes or times out.
package coordinator

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/gritdb/gritdb/metrics"
	"github.com/gritdb/gritdb/storage"
	"github.com/gritdb/gritdb/utils/log"
)

// Coordinator owns the worker pool. It executes nothing itself; it
// builds the pool and supervises worker lifetime.
type Coordinator struct {
	wg sync.WaitGroup
}

// New builds a pool of nworkers workers, each bound to one fresh
// connection from builder, and returns the queue's producing side as
// the sole submission path. nworkers == 0 means one worker per
// available CPU.
//
// Every connection is built before any worker starts: a builder
// failure closes whatever was already built and aborts with no partial
// pool. After construction a failing (panicking) worker is logged and
// its slot is lost for good; the pool degrades instead of aborting.
func New(nworkers int, builder storage.ConnBuilder) (*Coordinator, *JobQueue, error) {
	if nworkers < 0 {
		return nil, nil, errors.Errorf("invalid worker count %d", nworkers)
	}
	if nworkers == 0 {
		nworkers = runtime.NumCPU()
	}

	conns := make([]storage.Conn, 0, nworkers)
	for i := 0; i < nworkers; i++ {
		conn, err := builder()
		if err != nil {
			for _, c := range conns {
				c.Close()
			}
			return nil, nil, errors.Wrapf(err, "building connection for worker %d", i)
		}
		conns = append(conns, conn)
	}

	q := newJobQueue()
	c := &Coordinator{}
	for id, conn := range conns {
		w := &worker{id: id, conn: conn, queue: q}
		c.wg.Add(1)
		go func(w *worker) {
			defer c.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("worker %d failed: %v", w.id, r)
				}
				w.conn.Close()
			}()
			w.run()
		}(w)
	}
	metrics.Workers.Set(float64(nworkers))

	return c, q, nil
}

// Join blocks until every worker has exited.
func (c *Coordinator) Join() {
	c.wg.Wait()
}
