package coordinator

import "github.com/google/uuid"

// --- Lifecycle message kinds
type UpdateKind int8

const (
	TxnBegin UpdateKind = iota
	Ready
	TxnEnded
	TxnTimeout
)

func (k UpdateKind) String() string {
	switch k {
	case TxnBegin:
		return "TxnBegin"
	case Ready:
		return "Ready"
	case TxnEnded:
		return "TxnEnded"
	case TxnTimeout:
		return "TxnTimeout"
	}
	return "unknown"
}

// UpdateStateMessage is one lifecycle transition reported to the
// session tracker. Pinned is set only on TxnBegin: jobs sent into it
// reach the worker owning the client's open transaction directly,
// bypassing the shared queue. The pinned channel is buffered and never
// closed, so a dispatch racing the transaction's end is dropped in the
// buffer instead of panicking.
type UpdateStateMessage struct {
	Kind   UpdateKind
	Client uuid.UUID
	Pinned chan<- Job
}
