package handler

import (
	"go.uber.org/multierr"

	"github.com/philipp01105/logshim/core"
)

// MultiHandler sends log entries to multiple handlers
type MultiHandler struct {
	handlers     []Handler
	recycleEntry bool
}

// NewMultiHandler creates a new multi-handler. Entries may be recycled
// after Handle only when every child handles them synchronously.
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	m := &MultiHandler{handlers: handlers, recycleEntry: true}
	for _, h := range handlers {
		if !CanRecycle(h) {
			m.recycleEntry = false
		}
	}
	return m
}

// Handle sends the entry to every handler and combines their errors.
// When any child is asynchronous, each child receives its own copy.
func (h *MultiHandler) Handle(entry *core.Entry) error {
	var err error
	for i, handler := range h.handlers {
		e := entry
		if !h.recycleEntry && i < len(h.handlers)-1 {
			e = clone(entry)
		}
		err = multierr.Append(err, handler.Handle(e))
	}
	return err
}

// CanRecycleEntry returns true if the caller can recycle the entry after Handle returns.
func (h *MultiHandler) CanRecycleEntry() bool {
	return h.recycleEntry
}

// Sync flushes every child that supports it.
func (h *MultiHandler) Sync() error {
	var err error
	for _, handler := range h.handlers {
		if s, ok := handler.(interface{ Sync() error }); ok {
			err = multierr.Append(err, s.Sync())
		}
	}
	return err
}

// Close closes all handlers
func (h *MultiHandler) Close() error {
	var err error
	for _, handler := range h.handlers {
		err = multierr.Append(err, handler.Close())
	}
	return err
}

func clone(e *core.Entry) *core.Entry {
	c := core.GetEntry()
	c.Time = e.Time
	c.Level = e.Level
	c.Logger = e.Logger
	c.Message = e.Message
	c.Err = e.Err
	c.Caller = e.Caller
	c.Fields = append(c.Fields, e.Fields...)
	return c
}
