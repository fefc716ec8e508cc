// Package metrics exposes the coordination pool's prometheus
// collectors. Register nothing yourself; collectors are registered on
// the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsProcessed counts completed jobs by execution mode
	// (oneshot|transaction) and outcome (ok|error).
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gritdb",
		Subsystem: "coordinator",
		Name:      "jobs_processed_total",
		Help:      "Completed jobs by execution mode and outcome.",
	}, []string{"mode", "outcome"})

	// TransactionsBegun counts opened interactive transactions.
	TransactionsBegun = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gritdb",
		Subsystem: "coordinator",
		Name:      "transactions_begun_total",
		Help:      "Interactive transactions opened.",
	})

	// TransactionsClosed counts terminated transactions by reason
	// (commit|timeout).
	TransactionsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gritdb",
		Subsystem: "coordinator",
		Name:      "transactions_closed_total",
		Help:      "Interactive transactions terminated, by reason.",
	}, []string{"reason"})

	// Workers reports the pool size at construction. Lost worker slots
	// are not subtracted; compare against jobs throughput instead.
	Workers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gritdb",
		Subsystem: "coordinator",
		Name:      "workers",
		Help:      "Workers spawned by the coordination pool.",
	})
)

// Outcome renders an execution result as a label value.
func Outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
