package logger

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/philipp01105/logshim/args"
	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/mdc"
	"github.com/philipp01105/logshim/throwable"
)

// Logger is the facade for one name. It owns exactly one backend logger
// and is safe for concurrent use.
type Logger struct {
	reg    *Registry
	name   string
	handle backend.Logger

	tracing   atomic.Pointer[bool]
	formatter atomic.Pointer[Formatter]

	tracingMemo   atomic.Pointer[memo[bool]]
	formatterMemo atomic.Pointer[memo[Formatter]]
}

type memo[T any] struct {
	gen uint64
	val T
}

func newLogger(r *Registry, name string, h backend.Logger) *Logger {
	return &Logger{reg: r, name: name, handle: h}
}

// Name returns the backend name.
func (l *Logger) Name() string { return l.name }

// Backend returns the backend logger.
func (l *Logger) Backend() backend.Logger { return l.handle }

// Registry returns the registry that created l.
func (l *Logger) Registry() *Registry { return l.reg }

// Parent returns the nearest registered ancestor, or nil for the root.
func (l *Logger) Parent() *Logger {
	if l.reg.isRoot(l.name) {
		return nil
	}
	return l.reg.ParentOf(l.name)
}

// Flush flushes the backend.
func (l *Logger) Flush() error { return l.reg.Flush() }

// Level returns the effective level.
func (l *Logger) Level() core.Level { return l.handle.EffectiveLevel() }

// ExplicitLevel returns the level set on this logger, if any.
func (l *Logger) ExplicitLevel() (core.Level, bool) { return l.handle.Level() }

// SetLevel sets the level from anything the backend can parse: a
// core.Level, a name, an ordinal or a native level value. A nil v leaves
// the level unchanged.
func (l *Logger) SetLevel(v any) error {
	lvl, ok, err := l.reg.backend.ParseLevel(v)
	if err != nil || !ok {
		return err
	}
	l.handle.SetLevel(lvl)
	return nil
}

// ClearLevel makes the logger inherit its level again.
func (l *Logger) ClearLevel() { l.handle.ClearLevel() }

// Enabled reports whether a record at level would be emitted.
func (l *Logger) Enabled(level core.Level) bool { return l.handle.Enabled(level) }

// DebugEnabled reports whether DebugLevel is enabled.
func (l *Logger) DebugEnabled() bool { return l.handle.Enabled(core.DebugLevel) }

// InfoEnabled reports whether InfoLevel is enabled.
func (l *Logger) InfoEnabled() bool { return l.handle.Enabled(core.InfoLevel) }

// WarnEnabled reports whether WarnLevel is enabled.
func (l *Logger) WarnEnabled() bool { return l.handle.Enabled(core.WarnLevel) }

// Tracing reports whether calls publish their location to the context.
// An unset flag is inherited from the nearest registered ancestor; the
// root defaults to false.
func (l *Logger) Tracing() bool {
	return resolve(l, &l.tracing, &l.tracingMemo,
		func() bool { return false },
		(*Logger).Tracing)
}

// ExplicitTracing returns the flag set on this logger, if any.
func (l *Logger) ExplicitTracing() (bool, bool) {
	if t := l.tracing.Load(); t != nil {
		return *t, true
	}
	return false, false
}

// SetTracing sets the tracing flag.
func (l *Logger) SetTracing(on bool) {
	l.tracing.Store(&on)
	l.reg.invalidate()
}

// ClearTracing makes the logger inherit its tracing flag again.
func (l *Logger) ClearTracing() {
	l.tracing.Store(nil)
	l.reg.invalidate()
}

// Formatter returns the formatter applied to messages. An unset formatter
// is inherited; the root falls back to the registry default.
func (l *Logger) Formatter() Formatter {
	return resolve(l, &l.formatter, &l.formatterMemo,
		func() Formatter { return l.reg.formatter },
		(*Logger).Formatter)
}

// SetFormatter sets the formatter. A nil f makes the logger inherit again.
func (l *Logger) SetFormatter(f Formatter) {
	if f == nil {
		l.formatter.Store(nil)
	} else {
		l.formatter.Store(&f)
	}
	l.reg.invalidate()
}

// SetAttributes applies each set field of a. A nil a is a no-op.
func (l *Logger) SetAttributes(a *Attributes) error {
	if a == nil {
		return nil
	}
	if err := l.SetLevel(a.Level); err != nil {
		return err
	}
	if a.Tracing != nil {
		l.SetTracing(*a.Tracing)
	}
	if a.Formatter != nil {
		l.SetFormatter(a.Formatter)
	}
	return nil
}

func resolve[T any](l *Logger, explicit *atomic.Pointer[T], cache *atomic.Pointer[memo[T]], root func() T, parent func(*Logger) T) T {
	if v := explicit.Load(); v != nil {
		return *v
	}
	gen := l.reg.gen.Load()
	if m := cache.Load(); m != nil && m.gen == gen {
		return m.val
	}
	var v T
	if l.reg.isRoot(l.name) {
		v = root()
	} else {
		v = parent(l.reg.ParentOf(l.name))
	}
	cache.Store(&memo[T]{gen: gen, val: v})
	return v
}

// WithTemporaryLevel runs body with the level set to level and restores
// the previous explicit level, or clears it, however body returns.
func (l *Logger) WithTemporaryLevel(level any, body func(*Logger) error) error {
	prev, had := l.handle.Level()
	if err := l.SetLevel(level); err != nil {
		return err
	}
	defer func() {
		if had {
			l.handle.SetLevel(prev)
		} else {
			l.handle.ClearLevel()
		}
	}()
	return body(l)
}

// Silence runs body with the level raised to ErrorLevel.
func (l *Logger) Silence(body func(*Logger) error) error {
	return l.WithTemporaryLevel(core.ErrorLevel, body)
}

// Debug logs at DebugLevel. See args.Convert for the accepted shapes.
func (l *Logger) Debug(a ...any) error { return l.log(context.Background(), core.DebugLevel, a) }

// Info logs at InfoLevel.
func (l *Logger) Info(a ...any) error { return l.log(context.Background(), core.InfoLevel, a) }

// Warn logs at WarnLevel.
func (l *Logger) Warn(a ...any) error { return l.log(context.Background(), core.WarnLevel, a) }

// Error logs at ErrorLevel.
func (l *Logger) Error(a ...any) error { return l.log(context.Background(), core.ErrorLevel, a) }

// Fatal logs at FatalLevel. It does not exit the process.
func (l *Logger) Fatal(a ...any) error { return l.log(context.Background(), core.FatalLevel, a) }

// DebugContext logs at DebugLevel using the context map carried by ctx.
func (l *Logger) DebugContext(ctx context.Context, a ...any) error {
	return l.log(ctx, core.DebugLevel, a)
}

// InfoContext logs at InfoLevel using the context map carried by ctx.
func (l *Logger) InfoContext(ctx context.Context, a ...any) error {
	return l.log(ctx, core.InfoLevel, a)
}

// WarnContext logs at WarnLevel using the context map carried by ctx.
func (l *Logger) WarnContext(ctx context.Context, a ...any) error {
	return l.log(ctx, core.WarnLevel, a)
}

// ErrorContext logs at ErrorLevel using the context map carried by ctx.
func (l *Logger) ErrorContext(ctx context.Context, a ...any) error {
	return l.log(ctx, core.ErrorLevel, a)
}

// FatalContext logs at FatalLevel using the context map carried by ctx.
func (l *Logger) FatalContext(ctx context.Context, a ...any) error {
	return l.log(ctx, core.FatalLevel, a)
}

// Debugf logs a formatted message at DebugLevel. Formatting is skipped
// when the level is disabled.
func (l *Logger) Debugf(format string, a ...any) error {
	return l.log(context.Background(), core.DebugLevel, sprintf(format, a))
}

// Infof logs a formatted message at InfoLevel.
func (l *Logger) Infof(format string, a ...any) error {
	return l.log(context.Background(), core.InfoLevel, sprintf(format, a))
}

// Warnf logs a formatted message at WarnLevel.
func (l *Logger) Warnf(format string, a ...any) error {
	return l.log(context.Background(), core.WarnLevel, sprintf(format, a))
}

// Errorf logs a formatted message at ErrorLevel.
func (l *Logger) Errorf(format string, a ...any) error {
	return l.log(context.Background(), core.ErrorLevel, sprintf(format, a))
}

// Fatalf logs a formatted message at FatalLevel.
func (l *Logger) Fatalf(format string, a ...any) error {
	return l.log(context.Background(), core.FatalLevel, sprintf(format, a))
}

// LogError logs msg with err at ErrorLevel.
func (l *Logger) LogError(msg any, err error) error {
	return l.log(context.Background(), core.ErrorLevel, []any{msg, err})
}

// LogFatal logs msg with err at FatalLevel.
func (l *Logger) LogFatal(msg any, err error) error {
	return l.log(context.Background(), core.FatalLevel, []any{msg, err})
}

func sprintf(format string, a []any) []any {
	return []any{args.Lazy(func() any { return fmt.Sprintf(format, a...) })}
}

// log is the single entry point of every logging method. It must be
// called directly by the exported function the user called, so that the
// caller is always two frames above it.
func (l *Logger) log(ctx context.Context, level core.Level, a []any) error {
	if !l.handle.Enabled(level) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Tracing() {
		return l.emit(ctx, level, a)
	}
	return mdc.WithLocation(ctx, 2, func(ctx context.Context) error {
		return l.emit(ctx, level, a)
	})
}

func (l *Logger) emit(ctx context.Context, level core.Level, a []any) error {
	res := args.Convert(a...)

	var suffix string
	if res.Err != nil && !l.reg.nested {
		chain := throwable.Format(res.Err)
		if sameError(res.Message, res.Err) {
			res.Message = chain
		} else {
			suffix = "\n" + chain
		}
		res.Err = nil
	}

	msg := l.Formatter().Format(level, time.Now(), res.Tag, res.Message) + suffix
	return l.handle.Log(ctx, level, msg, res.Err)
}

func sameError(msg any, err error) bool {
	m, ok := msg.(error)
	if !ok {
		return false
	}
	t := reflect.TypeOf(m)
	if t != reflect.TypeOf(err) || !t.Comparable() {
		return false
	}
	return m == err
}
