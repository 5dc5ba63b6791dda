// Package zerologbackend is a backend that emits through a zerolog.Logger.
package zerologbackend

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/mdc"
)

// LoggerKey is the field holding the logger name.
const LoggerKey = "logger"

// Levels maps core levels to zerolog levels.
var Levels = levels.NewTable(zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.FatalLevel)

// New returns a backend writing to w through a copy of base. base
// contributes its context fields and hooks; its own writer is replaced by
// w. The default level follows base's level, with Trace counting as Debug.
//
// Records are built with WithLevel, which never exits the process, and
// written through a per-call writer wrapper so that write errors reach
// the caller instead of zerolog.ErrorHandler.
func New(w io.Writer, base zerolog.Logger, opts ...backend.Option) *backend.Provider {
	def, ok := Levels.Level(base.GetLevel())
	if !ok {
		def = core.FatalLevel
		if base.GetLevel() < zerolog.DebugLevel {
			def = core.DebugLevel
		}
	}
	s := &sink{w: w, base: base.Level(zerolog.TraceLevel)}
	defaults := []backend.Option{
		backend.WithDefaultLevel(def),
		backend.WithLevelParser(Levels.Parse),
	}
	return backend.NewProvider(s, append(defaults, opts...)...)
}

type sink struct {
	w    io.Writer
	base zerolog.Logger
}

type captureWriter struct {
	w   io.Writer
	err error
}

func (c *captureWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
	}
	return n, err
}

func (s *sink) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	cw := &captureWriter{w: s.w}
	zl := s.base.Output(cw)

	ev := zl.WithLevel(Levels.Native(level)).Str(LoggerKey, name)
	if m := mdc.FromContext(ctx); m != nil {
		if kv := m.Snapshot(); kv != nil {
			for _, f := range core.FieldsFromMap(make([]core.Field, 0, len(kv)), kv) {
				ev = ev.Str(f.Key, f.Str)
			}
		}
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
	return cw.err
}

func (s *sink) Sync() error {
	if sy, ok := s.w.(interface{ Sync() error }); ok {
		return sy.Sync()
	}
	return nil
}
