// Package slogbackend is a backend that emits through a log/slog Handler.
package slogbackend

import (
	"context"
	"log/slog"
	"time"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/mdc"
)

// Attribute keys set on every record.
const (
	LoggerKey = "logger"
	ErrorKey  = "error"
)

// New returns a backend emitting records to h. The default level is the
// lowest core level h reports as enabled.
//
// FatalLevel records use levels.SlogFatal. The backend does not render
// error chains, so loggers fold them into the message.
func New(h slog.Handler, opts ...backend.Option) *backend.Provider {
	base := []backend.Option{
		backend.WithDefaultLevel(probe(h)),
		backend.WithLevelParser(parse),
	}
	return backend.NewProvider(&sink{h: h}, append(base, opts...)...)
}

// parse also accepts slog levels between the named constants.
func parse(v any) (core.Level, bool, error) {
	if l, ok := v.(slog.Level); ok {
		return levels.FromSlog(l), true, nil
	}
	return levels.Slog.Parse(v)
}

func probe(h slog.Handler) core.Level {
	ctx := context.Background()
	for _, l := range core.Levels {
		if h.Enabled(ctx, levels.Slog.Native(l)) {
			return l
		}
	}
	return core.FatalLevel
}

type sink struct {
	h slog.Handler
}

func (s *sink) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	lvl := levels.Slog.Native(level)
	r := slog.NewRecord(time.Now(), lvl, msg, 0)
	r.AddAttrs(slog.String(LoggerKey, name))
	if m := mdc.FromContext(ctx); m != nil {
		if kv := m.Snapshot(); kv != nil {
			for _, f := range core.FieldsFromMap(make([]core.Field, 0, len(kv)), kv) {
				r.AddAttrs(slog.String(f.Key, f.Str))
			}
		}
	}
	if err != nil {
		r.AddAttrs(slog.Any(ErrorKey, err))
	}
	return s.h.Handle(ctx, r)
}
