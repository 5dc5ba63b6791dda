package backend

import (
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
)

type options struct {
	rootName     string
	defaultLevel core.Level
	nestedErrors bool
	parseLevel   func(any) (core.Level, bool, error)
	sync         func() error
	close        func() error
}

// Option configures a Provider.
type Option func(*options)

func defaultOptions() options {
	return options{
		rootName:     DefaultRootName,
		defaultLevel: core.InfoLevel,
		parseLevel:   levels.Parse,
	}
}

// WithRootName sets the name of the root logger.
func WithRootName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.rootName = name
		}
	}
}

// WithDefaultLevel sets the effective level of loggers without an
// explicitly configured ancestor.
func WithDefaultLevel(l core.Level) Option {
	return func(o *options) { o.defaultLevel = l }
}

// WithNestedErrors declares that the sink renders error chains itself.
func WithNestedErrors(ok bool) Option {
	return func(o *options) { o.nestedErrors = ok }
}

// WithLevelParser replaces levels.Parse, typically with a levels.Table's
// Parse so native level values are accepted.
func WithLevelParser(fn func(any) (core.Level, bool, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.parseLevel = fn
		}
	}
}

// WithSync sets the function called by Provider.Sync.
func WithSync(fn func() error) Option {
	return func(o *options) { o.sync = fn }
}

// WithClose sets the function called by Provider.Close.
func WithClose(fn func() error) Option {
	return func(o *options) { o.close = fn }
}
