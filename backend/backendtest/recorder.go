// Package backendtest provides an in-memory backend for tests.
package backendtest

import (
	"context"
	"errors"
	"sync"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/mdc"
)

// Record is one call received by a Recorder.
type Record struct {
	Logger  string
	Level   core.Level
	Message string
	Err     error
	Context map[string]string
}

// Recorder is a backend.Sink that keeps every record in memory.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	fail    error
}

// New returns a Recorder and a Provider writing to it.
func New(opts ...backend.Option) (*Recorder, *backend.Provider) {
	r := &Recorder{}
	return r, backend.NewProvider(r, opts...)
}

// Write implements backend.Sink.
func (r *Recorder) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	rec := Record{Logger: name, Level: level, Message: msg, Err: err}
	if m := mdc.FromContext(ctx); m != nil {
		rec.Context = m.Snapshot()
	}
	r.records = append(r.records, rec)
	return nil
}

// FailWith makes subsequent writes return err. A nil err restores normal
// operation.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

// Records returns a copy of the recorded calls.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Last returns the most recent record.
func (r *Recorder) Last() (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return Record{}, ErrEmpty
	}
	return r.records[len(r.records)-1], nil
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Clear discards all records.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
}

// ErrEmpty is returned by Last when nothing was recorded.
var ErrEmpty = errors.New("backendtest: no records")
