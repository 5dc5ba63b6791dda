package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/philipp01105/logshim/args"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/throwable"
)

// Formatter turns a normalized call into the message handed to the
// backend. Level and time are the backend's business, so most formatters
// ignore them.
type Formatter interface {
	Format(level core.Level, t time.Time, tag any, msg any) string
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(level core.Level, t time.Time, tag any, msg any) string

// Format calls f.
func (f FormatterFunc) Format(level core.Level, t time.Time, tag any, msg any) string {
	return f(level, t, tag, msg)
}

// DefaultFormatter renders "-- <tag>: <msg>".
type DefaultFormatter struct{}

// Format implements Formatter.
func (DefaultFormatter) Format(_ core.Level, _ time.Time, tag any, msg any) string {
	return "-- " + args.Stringify(tag) + ": " + args.Stringify(msg)
}

// ShimFormatter renders "-- <tag>: <msg>" like DefaultFormatter, except
// that errors include their cause chain and other non-string values are
// shown with their Go syntax.
type ShimFormatter struct{}

// Format implements Formatter.
func (ShimFormatter) Format(_ core.Level, _ time.Time, tag any, msg any) string {
	return "-- " + inspect(tag) + ": " + inspect(msg)
}

func inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case error:
		return throwable.Format(x)
	default:
		return fmt.Sprintf("%#v", x)
	}
}

// MessageFormatter renders the message alone.
type MessageFormatter struct{}

// Format implements Formatter.
func (MessageFormatter) Format(_ core.Level, _ time.Time, _ any, msg any) string {
	return args.Stringify(msg)
}

var formatters = map[string]Formatter{
	"default": DefaultFormatter{},
	"shim":    ShimFormatter{},
	"message": MessageFormatter{},
}

// FormatterByName returns a built-in formatter: "default", "shim" or
// "message". Names are case-insensitive.
func FormatterByName(name string) (Formatter, bool) {
	f, ok := formatters[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}
