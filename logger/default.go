package logger

import (
	"context"
	"sync"

	"github.com/philipp01105/logshim/backend/native"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/formatter"
	"github.com/philipp01105/logshim/handler"
)

var (
	defaultRegistry *Registry
	defaultMu       sync.RWMutex
)

func init() {
	// Initialize default registry with an async console handler
	h := handler.NewConsoleHandler(handler.ConsoleConfig{
		Async:       true,
		AsyncConfig: handler.AsyncConfig{BufferSize: 1000},
		Formatter:   formatter.NewTextFormatter(formatter.Config{IncludeCaller: true}),
	})
	defaultRegistry = NewRegistry(native.New(h))
}

// Default returns the default registry
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// SetDefault sets the default registry
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = r
}

// Get returns the Logger for name in the default registry.
func Get(name string) (*Logger, error) { return Default().Get(name) }

// GetWith returns the Logger for name in the default registry and applies
// attrs to it.
func GetWith(name string, attrs *Attributes) (*Logger, error) {
	return Default().GetWith(name, attrs)
}

// Root returns the root Logger of the default registry.
func Root() *Logger { return Default().Root() }

// Reset resets the default registry.
func Reset() error { return Default().Reset() }

// Flush flushes the default registry's backend.
func Flush() error { return Default().Flush() }

// Package-level convenience functions logging through the default root

// Debug logs at DebugLevel through the default root logger
func Debug(a ...any) error { return Root().log(context.Background(), core.DebugLevel, a) }

// Info logs at InfoLevel through the default root logger
func Info(a ...any) error { return Root().log(context.Background(), core.InfoLevel, a) }

// Warn logs at WarnLevel through the default root logger
func Warn(a ...any) error { return Root().log(context.Background(), core.WarnLevel, a) }

// Error logs at ErrorLevel through the default root logger
func Error(a ...any) error { return Root().log(context.Background(), core.ErrorLevel, a) }

// Fatal logs at FatalLevel through the default root logger. It does not
// exit the process.
func Fatal(a ...any) error { return Root().log(context.Background(), core.FatalLevel, a) }
