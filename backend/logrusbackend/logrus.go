// Package logrusbackend is a backend that emits through a *logrus.Logger.
package logrusbackend

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/mdc"
)

// LoggerKey is the field holding the logger name.
const LoggerKey = "logger"

// Levels maps core levels to logrus levels.
var Levels = levels.NewTable(logrus.DebugLevel, logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel, logrus.FatalLevel)

// New returns a backend writing through l's hooks, formatter and output.
// The default level follows l's level; Trace counts as Debug and Panic as
// Fatal.
//
// Records bypass logrus.Entry.Log so that formatter and write errors are
// returned to the caller and FatalLevel never exits the process.
func New(l *logrus.Logger, opts ...backend.Option) *backend.Provider {
	base := []backend.Option{
		backend.WithDefaultLevel(fromLogrus(l.GetLevel())),
		backend.WithLevelParser(Levels.Parse),
	}
	return backend.NewProvider(&sink{l: l}, append(base, opts...)...)
}

func fromLogrus(l logrus.Level) core.Level {
	if c, ok := Levels.Level(l); ok {
		return c
	}
	if l > logrus.DebugLevel {
		return core.DebugLevel
	}
	return core.FatalLevel
}

type sink struct {
	l  *logrus.Logger
	mu sync.Mutex
}

func (s *sink) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	data := make(logrus.Fields, 5)
	data[LoggerKey] = name
	e := &logrus.Entry{
		Logger:  s.l,
		Data:    data,
		Time:    time.Now(),
		Level:   Levels.Native(level),
		Message: msg,
		Context: ctx,
	}
	if m := mdc.FromContext(ctx); m != nil {
		kv := m.Snapshot()
		for k, v := range kv {
			data[k] = v
		}
		if file := kv[mdc.FileNameKey]; file != "" {
			line, _ := strconv.Atoi(kv[mdc.LineNumberKey])
			e.Caller = &runtime.Frame{File: file, Line: line, Function: kv[mdc.MethodNameKey]}
		}
	}
	if err != nil {
		data[logrus.ErrorKey] = err
	}

	if herr := s.l.Hooks.Fire(e.Level, e); herr != nil {
		return herr
	}
	b, ferr := s.l.Formatter.Format(e)
	if ferr != nil {
		return ferr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, werr := s.l.Out.Write(b)
	return werr
}
