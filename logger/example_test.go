package logger_test

import (
	"errors"
	"os"
	"time"

	"github.com/philipp01105/logshim/backend/native"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/formatter"
	"github.com/philipp01105/logshim/handler"
	"github.com/philipp01105/logshim/logger"
)

func newRegistry() *logger.Registry {
	pf := formatter.MustPatternFormatter("%-5p %c - %m%n", formatter.Config{})
	h := handler.NewConsoleHandler(handler.ConsoleConfig{Writer: os.Stdout, Formatter: pf})
	return logger.NewRegistry(native.New(h))
}

// Loggers are looked up by name; "::" and "." both separate segments.
func ExampleRegistry_Get() {
	reg := newRegistry()
	log, _ := reg.Get("billing::Invoice")
	log.Info("created")
	log.Debug("not shown", func() any { return "expensive" })
	// Output:
	// INFO  root.billing.Invoice - -- : created
}

// Unset attributes are inherited from the nearest registered ancestor.
func ExampleLogger_SetFormatter() {
	reg := newRegistry()
	reg.MustGet("billing").SetFormatter(logger.MessageFormatter{})

	reg.MustGet("billing::Invoice").Warn("overdue")
	reg.MustGet("shipping").Warn("late")
	// Output:
	// WARN  root.billing.Invoice - overdue
	// WARN  root.shipping - -- : late
}

// Silence raises the level for the duration of a function.
func ExampleLogger_Silence() {
	reg := newRegistry()
	log := reg.MustGet("batch")
	log.SetFormatter(logger.MessageFormatter{})

	log.Silence(func(l *logger.Logger) error {
		l.Info("quiet")
		return l.Error("still reported")
	})
	log.Info("back to normal")
	// Output:
	// ERROR root.batch - still reported
	// INFO  root.batch - back to normal
}

// A custom formatter sees the tag and message of every call.
func ExampleFormatterFunc() {
	reg := newRegistry()
	log := reg.MustGet("jobs")
	log.SetFormatter(logger.FormatterFunc(func(_ core.Level, _ time.Time, tag, msg any) string {
		if tag == nil {
			return msg.(string)
		}
		return tag.(string) + " | " + msg.(string)
	}))

	log.Info("nightly", func() any { return "started" })
	log.LogError("nightly failed", errors.New("timeout"))
	// Output:
	// INFO  root.jobs - nightly | started
	// ERROR root.jobs - nightly failed
}

// Levels can be set with names, ordinals or backend-native values.
func ExampleLogger_SetLevel() {
	reg := newRegistry()
	reg.Root().SetLevel("warn")
	log := reg.MustGet("api")

	log.Info("hidden")
	log.Warn("shown")
	// Output:
	// WARN  root.api - -- : shown
}
