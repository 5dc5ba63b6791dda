package handler

import "github.com/philipp01105/logshim/core"

// Handler defines the interface for log handlers
type Handler interface {
	// Handle processes a log entry
	Handle(entry *core.Entry) error

	// Close closes the handler and releases resources
	Close() error
}

// Recycler is implemented by handlers that know whether the caller may
// return an entry to the pool once Handle returns.
type Recycler interface {
	CanRecycleEntry() bool
}

// CanRecycle reports whether entries passed to h may be pooled again
// after Handle returns.
func CanRecycle(h Handler) bool {
	r, ok := h.(Recycler)
	return ok && r.CanRecycleEntry()
}
