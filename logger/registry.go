package logger

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/logshim/backend"
)

// ErrInvalidName is matched by every InvalidNameError.
var ErrInvalidName = errors.New("logger: invalid name")

// InvalidNameError reports an empty or blank logger name.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("logger: invalid name %q", e.Name)
}

// Is reports whether target is ErrInvalidName.
func (e *InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDefaultFormatter sets the formatter the root logger falls back to.
func WithDefaultFormatter(f Formatter) RegistryOption {
	return func(r *Registry) {
		if f != nil {
			r.formatter = f
		}
	}
}

// Registry maps names to Loggers over one backend. A Registry hands out
// exactly one Logger per name for its lifetime, or until Reset.
//
// Resolved tracing flags and formatters are memoized per Logger and tagged
// with the registry generation. Every attribute write and reset starts a
// new generation, so memos never outlive a change. Registering a Logger
// does not: a new Logger has no attributes of its own, so it resolves to
// the same values as the ancestor it is inserted under.
type Registry struct {
	backend   backend.Backend
	formatter Formatter
	nested    bool
	gen       atomic.Uint64

	mu      sync.Mutex
	loggers map[string]*Logger
}

// NewRegistry creates a Registry over b. The backend's NestedErrors
// capability is read once here.
func NewRegistry(b backend.Backend, opts ...RegistryOption) *Registry {
	r := &Registry{
		backend:   b,
		formatter: DefaultFormatter{},
		nested:    b.NestedErrors(),
		loggers:   make(map[string]*Logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the registry's backend.
func (r *Registry) Backend() backend.Backend { return r.backend }

// BackendName translates an application name into the backend's dotted
// namespace: "A::B" becomes "<root>.A.B".
func (r *Registry) BackendName(name string) string {
	return r.backend.RootName() + "." + strings.ReplaceAll(name, "::", ".")
}

// Get returns the Logger for name, creating it on first use.
func (r *Registry) Get(name string) (*Logger, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &InvalidNameError{Name: name}
	}
	return r.getOrCreate(r.BackendName(name)), nil
}

// MustGet is like Get but panics on an invalid name.
func (r *Registry) MustGet(name string) *Logger {
	l, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return l
}

// GetWith returns the Logger for name and applies attrs to it.
func (r *Registry) GetWith(name string, attrs *Attributes) (*Logger, error) {
	l, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := l.SetAttributes(attrs); err != nil {
		return nil, err
	}
	return l, nil
}

// Lookup returns the Logger already registered for name. It never creates
// one.
func (r *Registry) Lookup(name string) (*Logger, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}
	r.mu.Lock()
	l, ok := r.loggers[r.BackendName(name)]
	r.mu.Unlock()
	return l, ok
}

// Root returns the root Logger.
func (r *Registry) Root() *Logger {
	return r.getOrCreate(r.backend.RootName())
}

// ParentOf returns the nearest registered ancestor of the backend name
// bname, or the root Logger. Intermediate ancestors are not registered.
func (r *Registry) ParentOf(bname string) *Logger {
	r.mu.Lock()
	for i := strings.LastIndexByte(bname, '.'); i > 0; i = strings.LastIndexByte(bname, '.') {
		bname = bname[:i]
		if l, ok := r.loggers[bname]; ok {
			r.mu.Unlock()
			return l
		}
	}
	r.mu.Unlock()
	return r.Root()
}

// Len returns the number of registered Loggers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loggers)
}

// Reset drops every Logger and memoized attribute, then resets the
// backend. Loggers obtained earlier keep working but are no longer
// registered.
func (r *Registry) Reset() error {
	r.mu.Lock()
	r.loggers = make(map[string]*Logger)
	r.gen.Add(1)
	r.mu.Unlock()
	return r.backend.Reset()
}

// Flush flushes the backend's buffered output.
func (r *Registry) Flush() error { return r.backend.Sync() }

// Close flushes and releases the backend.
func (r *Registry) Close() error { return r.backend.Close() }

func (r *Registry) getOrCreate(bname string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[bname]; ok {
		return l
	}
	l := newLogger(r, bname, r.backend.Logger(bname))
	r.loggers[bname] = l
	return l
}

func (r *Registry) isRoot(bname string) bool { return bname == r.backend.RootName() }

// invalidate starts a new generation.
func (r *Registry) invalidate() { r.gen.Add(1) }
