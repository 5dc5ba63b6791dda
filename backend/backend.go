package backend

import (
	"context"

	"github.com/philipp01105/logshim/core"
)

// DefaultRootName is the name of the root logger.
const DefaultRootName = "root"

// Logger is one named logger of a backend.
type Logger interface {
	// Name returns the dotted backend name.
	Name() string
	// Parent returns the nearest ancestor the backend has handed out, or
	// the root logger. It returns nil for the root itself.
	Parent() Logger
	// Enabled reports whether a record at level would be emitted.
	Enabled(level core.Level) bool
	// Level returns the explicitly set level.
	Level() (core.Level, bool)
	// SetLevel sets an explicit level.
	SetLevel(level core.Level)
	// ClearLevel removes the explicit level so the logger inherits again.
	ClearLevel()
	// EffectiveLevel resolves the level through the name hierarchy.
	EffectiveLevel() core.Level
	// Log emits one record. Errors from the underlying library are
	// returned unchanged.
	Log(ctx context.Context, level core.Level, msg string, err error) error
}

// Backend hands out loggers and owns their level state.
type Backend interface {
	// RootName returns the name of the root logger.
	RootName() string
	// Logger returns the logger for name, creating it on first use.
	Logger(name string) Logger
	// ParseLevel converts a loosely typed level, including the backend's
	// native level values. The boolean is false for nil.
	ParseLevel(v any) (core.Level, bool, error)
	// NestedErrors reports whether the backend renders error chains on its
	// own. When false, loggers render the chain into the message.
	NestedErrors() bool
	// Reset drops all loggers and explicit levels.
	Reset() error
	// Sync flushes buffered output.
	Sync() error
	// Close releases the backend's resources.
	Close() error
}

// Sink is what an adapter implements: emit one finished record for the
// named logger.
type Sink interface {
	Write(ctx context.Context, name string, level core.Level, msg string, err error) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, name string, level core.Level, msg string, err error) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, name string, level core.Level, msg string, err error) error {
	return f(ctx, name, level, msg, err)
}
