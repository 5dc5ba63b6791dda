package throwable

import (
	"fmt"
	"io"
	"runtime"

	"github.com/pkg/errors"

	"github.com/philipp01105/logshim/core"
)

const maxDepth = 32

// Framer is implemented by errors that know the stack frames they were
// raised from, innermost first, as "file:line:in `method'" descriptors.
type Framer interface {
	Frames() []string
}

// Kinder is implemented by errors that name their own type.
type Kinder interface {
	Kind() string
}

// Exception is an error with a kind, a captured stack and an optional cause.
type Exception struct {
	kind  string
	msg   string
	cause error
	stack []uintptr
}

// New creates an Exception recording the caller's stack.
func New(msg string) *Exception {
	return newException("", msg, nil, 3)
}

// Newf creates an Exception with a formatted message.
func Newf(format string, args ...any) *Exception {
	return newException("", fmt.Sprintf(format, args...), nil, 3)
}

// NewKind creates an Exception with an explicit kind, e.g. "ArgumentError".
func NewKind(kind, msg string) *Exception {
	return newException(kind, msg, nil, 3)
}

// Wrap creates an Exception caused by cause.
func Wrap(cause error, msg string) *Exception {
	return newException("", msg, cause, 3)
}

// WrapKind creates an Exception with a kind, caused by cause.
func WrapKind(cause error, kind, msg string) *Exception {
	return newException(kind, msg, cause, 3)
}

func newException(kind, msg string, cause error, skip int) *Exception {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	return &Exception{kind: kind, msg: msg, cause: cause, stack: pcs[:n]}
}

func (e *Exception) Error() string { return e.msg }

// Unwrap returns the cause, if any.
func (e *Exception) Unwrap() error { return e.cause }

// Kind returns the explicit kind or "Exception".
func (e *Exception) Kind() string {
	if e.kind == "" {
		return "Exception"
	}
	return e.kind
}

// Frames returns the captured stack as frame descriptors.
func (e *Exception) Frames() []string {
	return descriptors(core.CallersFrames(e.stack))
}

// StackTrace exposes the captured stack in the github.com/pkg/errors form.
func (e *Exception) StackTrace() errors.StackTrace {
	st := make(errors.StackTrace, len(e.stack))
	for i, pc := range e.stack {
		st[i] = errors.Frame(pc)
	}
	return st
}

// Format implements fmt.Formatter. %+v renders the full chain.
func (e *Exception) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, Format(e))
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.msg)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.msg)
	}
}

func descriptors(frames []core.CallerInfo) []string {
	if len(frames) == 0 {
		return nil
	}
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Descriptor())
	}
	return out
}
