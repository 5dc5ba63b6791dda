package backend

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/philipp01105/logshim/core"
)

// Provider implements Backend over a Sink.
type Provider struct {
	sink Sink
	opts options

	mu      sync.RWMutex
	loggers map[string]*logger
	levels  map[string]core.Level
}

var _ Backend = (*Provider)(nil)

// NewProvider creates a Provider emitting through sink.
func NewProvider(sink Sink, opts ...Option) *Provider {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Provider{
		sink:    sink,
		opts:    o,
		loggers: make(map[string]*logger),
		levels:  make(map[string]core.Level),
	}
}

// RootName returns the name of the root logger.
func (p *Provider) RootName() string { return p.opts.rootName }

// Root returns the root logger.
func (p *Provider) Root() Logger { return p.Logger(p.opts.rootName) }

// Logger returns the logger for name, creating it on first use.
func (p *Provider) Logger(name string) Logger {
	p.mu.RLock()
	l, ok := p.loggers[name]
	p.mu.RUnlock()
	if ok {
		return l
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok = p.loggers[name]; !ok {
		l = &logger{p: p, name: name}
		p.loggers[name] = l
	}
	return l
}

// ParseLevel converts v with the configured level parser.
func (p *Provider) ParseLevel(v any) (core.Level, bool, error) {
	return p.opts.parseLevel(v)
}

// NestedErrors reports whether the sink renders error chains itself.
func (p *Provider) NestedErrors() bool { return p.opts.nestedErrors }

// DefaultLevel returns the level used when no ancestor sets one.
func (p *Provider) DefaultLevel() core.Level { return p.opts.defaultLevel }

// Reset drops all loggers and explicit levels. Loggers handed out before
// keep working and inherit the default level again.
func (p *Provider) Reset() error {
	p.mu.Lock()
	clear(p.loggers)
	clear(p.levels)
	p.mu.Unlock()
	return nil
}

// Sync flushes the sink.
func (p *Provider) Sync() error {
	if p.opts.sync != nil {
		return p.opts.sync()
	}
	if s, ok := p.sink.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Close closes the sink.
func (p *Provider) Close() error {
	if p.opts.close != nil {
		return p.opts.close()
	}
	if c, ok := p.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *Provider) setLevel(name string, l core.Level) {
	p.mu.Lock()
	p.levels[name] = l
	p.mu.Unlock()
}

func (p *Provider) clearLevel(name string) {
	p.mu.Lock()
	delete(p.levels, name)
	p.mu.Unlock()
}

func (p *Provider) level(name string) (core.Level, bool) {
	p.mu.RLock()
	l, ok := p.levels[name]
	p.mu.RUnlock()
	return l, ok
}

func (p *Provider) effectiveLevel(name string) core.Level {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for n := name; ; {
		if l, ok := p.levels[n]; ok {
			return l
		}
		i := strings.LastIndexByte(n, '.')
		if i < 0 {
			break
		}
		n = n[:i]
	}
	if l, ok := p.levels[p.opts.rootName]; ok {
		return l
	}
	return p.opts.defaultLevel
}

func (p *Provider) parent(name string) Logger {
	if name == p.opts.rootName {
		return nil
	}
	p.mu.RLock()
	for n := name; ; {
		i := strings.LastIndexByte(n, '.')
		if i < 0 {
			break
		}
		n = n[:i]
		if l, ok := p.loggers[n]; ok {
			p.mu.RUnlock()
			return l
		}
	}
	p.mu.RUnlock()
	return p.Root()
}

type logger struct {
	p    *Provider
	name string
}

func (l *logger) Name() string { return l.name }
func (l *logger) Parent() Logger { return l.p.parent(l.name) }
func (l *logger) Level() (core.Level, bool) { return l.p.level(l.name) }
func (l *logger) SetLevel(level core.Level) { l.p.setLevel(l.name, level) }
func (l *logger) ClearLevel() { l.p.clearLevel(l.name) }
func (l *logger) EffectiveLevel() core.Level { return l.p.effectiveLevel(l.name) }
func (l *logger) Enabled(level core.Level) bool { return level >= l.p.effectiveLevel(l.name) }

func (l *logger) Log(ctx context.Context, level core.Level, msg string, err error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.p.sink.Write(ctx, l.name, level, msg, err)
}
