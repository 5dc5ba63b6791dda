// Package native is a backend that emits through logshim's own handler
// and formatter pipeline.
package native

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/handler"
	"github.com/philipp01105/logshim/mdc"
)

// New returns a backend writing entries to h. A nil h writes text to
// stdout. Error chains are rendered by the formatters, so the backend
// reports NestedErrors; pass backend.WithNestedErrors(false) to have
// loggers render chains into the message instead.
func New(h handler.Handler, opts ...backend.Option) *backend.Provider {
	if h == nil {
		h = handler.NewConsoleHandler(handler.ConsoleConfig{})
	}
	s := &sink{h: h, recycle: handler.CanRecycle(h)}
	opts = append([]backend.Option{backend.WithNestedErrors(true)}, opts...)
	return backend.NewProvider(s, opts...)
}

type sink struct {
	h       handler.Handler
	recycle bool
}

func (s *sink) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	e := core.GetEntry()
	e.Level = level
	e.Logger = name
	e.Message = msg
	e.Err = err
	if m := mdc.FromContext(ctx); m != nil {
		if kv := m.Snapshot(); kv != nil {
			e.Fields = core.FieldsFromMap(e.Fields, kv)
			e.Caller = callerFrom(kv)
		}
	}

	herr := s.h.Handle(e)
	if s.recycle {
		core.PutEntry(e)
	}
	return herr
}

func (s *sink) Sync() error {
	if sy, ok := s.h.(interface{ Sync() error }); ok {
		return sy.Sync()
	}
	return nil
}

func (s *sink) Close() error { return s.h.Close() }

// callerFrom rebuilds the caller from the location keys, if present.
func callerFrom(kv map[string]string) core.CallerInfo {
	file, ok := kv[mdc.FileNameKey]
	if !ok || file == "" {
		return core.CallerInfo{}
	}
	line, _ := strconv.Atoi(kv[mdc.LineNumberKey])
	return core.CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  kv[mdc.MethodNameKey],
		Defined:   true,
	}
}
