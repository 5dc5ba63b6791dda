// Package zapbackend is a backend that emits through a zapcore.Core.
package zapbackend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/mdc"
	"github.com/philipp01105/logshim/throwable"
)

// Levels maps core levels to zap levels.
var Levels = levels.NewTable(zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel, zapcore.FatalLevel)

// New returns a backend writing to c. The default level is taken from the
// core's own minimum level. Records are written with Core.Write, so write
// errors reach the caller and FatalLevel never exits the process.
//
// zap renders the errorVerbose field from fmt.Formatter errors. For other
// errors that wrap a cause the sink adds errorVerbose with the chain
// rendered by throwable.Format, so the backend reports NestedErrors.
func New(c zapcore.Core, opts ...backend.Option) *backend.Provider {
	def := core.InfoLevel
	if l, ok := Levels.Level(zapcore.LevelOf(c)); ok {
		def = l
	}
	base := []backend.Option{
		backend.WithDefaultLevel(def),
		backend.WithNestedErrors(true),
		backend.WithLevelParser(Levels.Parse),
	}
	return backend.NewProvider(&sink{core: c}, append(base, opts...)...)
}

// NewLogger returns a backend writing to l's core.
func NewLogger(l *zap.Logger, opts ...backend.Option) *backend.Provider {
	return New(l.Core(), opts...)
}

// VerboseKey is the field holding an error's full chain, named like the
// field zap.Error adds for fmt.Formatter errors.
const VerboseKey = "errorVerbose"

type sink struct {
	core zapcore.Core
}

func (s *sink) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	ent := zapcore.Entry{
		LoggerName: name,
		Time:       time.Now(),
		Level:      Levels.Native(level),
		Message:    msg,
	}

	var fields []zapcore.Field
	if m := mdc.FromContext(ctx); m != nil {
		if kv := m.Snapshot(); kv != nil {
			cf := core.FieldsFromMap(make([]core.Field, 0, len(kv)), kv)
			fields = make([]zapcore.Field, 0, len(cf)+1)
			for _, f := range cf {
				fields = append(fields, zap.String(f.Key, f.Str))
			}
			if file := kv[mdc.FileNameKey]; file != "" {
				line, _ := strconv.Atoi(kv[mdc.LineNumberKey])
				ent.Caller = zapcore.EntryCaller{Defined: true, File: file, Line: line, Function: kv[mdc.MethodNameKey]}
			}
		}
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		if _, ok := err.(fmt.Formatter); !ok && errors.Unwrap(err) != nil {
			fields = append(fields, zap.String(VerboseKey, throwable.Format(err)))
		}
	}
	return s.core.Write(ent, fields)
}

func (s *sink) Sync() error { return s.core.Sync() }
