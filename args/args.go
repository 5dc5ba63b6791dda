// Package args normalizes the loosely shaped arguments of a leveled log
// call into a tag, a message and an error.
//
// A call may pass up to two positional values and, last, a lazily
// evaluated value (a Lazy, or a func() any, func() string or func() error).
// Loggers call Convert only after their level check, so a lazy value is
// never evaluated for a disabled level.
package args

import (
	"fmt"
	"strings"

	"github.com/philipp01105/logshim/throwable"
)

// Lazy produces a log value on demand.
type Lazy func() any

// Result is a normalized log call.
type Result struct {
	// Tag identifies the caller's subsystem. It is set only when a
	// positional value is followed by a lazy one.
	Tag any
	// Message is the value to render. It stays unconverted when it came
	// from a single part.
	Message any
	// Err is the error forwarded to the backend, if any.
	Err error
}

// Convert normalizes args.
//
//	()                  -> (nil, nil, nil)
//	(lazy)              -> (nil, v, v if error)
//	(a)                 -> (nil, a, a if error)
//	(a, lazy)           -> (a, v, v if error else a if error)
//	(a, b, ..., [lazy]) -> (nil, parts without the error, first error of b, v, a)
//
// A *throwable.Foreign in the error position is replaced by the native
// error it wraps, and its description is appended to the message.
func Convert(args ...any) Result {
	var (
		lazyVal any
		hasLazy bool
	)
	if n := len(args); n > 0 {
		if v, ok := evaluate(args[n-1]); ok {
			lazyVal, hasLazy = v, true
			args = args[:n-1]
		}
	}

	var r Result
	switch len(args) {
	case 0:
		if hasLazy {
			r = Result{Message: lazyVal, Err: asError(lazyVal)}
		}
	case 1:
		a := args[0]
		if !hasLazy {
			r = Result{Message: a, Err: asError(a)}
			break
		}
		err := asError(lazyVal)
		if err == nil {
			err = asError(a)
		}
		r = Result{Tag: a, Message: lazyVal, Err: err}
	default:
		r = combine(args, lazyVal, hasLazy)
	}
	return unwrapForeign(r)
}

func combine(positional []any, lazyVal any, hasLazy bool) Result {
	parts := positional
	if hasLazy {
		parts = append(parts[:len(parts):len(parts)], lazyVal)
	}

	order := []int{1}
	if hasLazy {
		order = append(order, len(parts)-1)
	}
	order = append(order, 0)

	errIdx := -1
	var err error
	for _, i := range order {
		if e := asError(parts[i]); e != nil {
			errIdx, err = i, e
			break
		}
	}

	msg := make([]any, 0, len(parts))
	for i, p := range parts {
		if i == errIdx || p == nil {
			continue
		}
		msg = append(msg, p)
	}
	return Result{Message: join(msg), Err: err}
}

func unwrapForeign(r Result) Result {
	f, ok := r.Err.(*throwable.Foreign)
	if !ok {
		return r
	}
	native, text := throwable.UnwrapForeign(f)
	r.Err = native
	if m, ok := r.Message.(*throwable.Foreign); ok && m == f {
		r.Message = text
		return r
	}
	r.Message = join([]any{r.Message, text})
	return r
}

func join(parts []any) any {
	var kept []any
	for _, p := range parts {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	strs := make([]string, len(kept))
	for i, p := range kept {
		strs[i] = Stringify(p)
	}
	return strings.Join(strs, "\n")
}

func evaluate(v any) (any, bool) {
	switch f := v.(type) {
	case Lazy:
		return f(), true
	case func() any:
		return f(), true
	case func() string:
		return f(), true
	case func() error:
		if err := f(); err != nil {
			return err, true
		}
		return nil, true
	}
	return nil, false
}

func asError(v any) error {
	err, _ := v.(error)
	return err
}

// Stringify renders a message value: strings as-is, errors by their
// message, nil as "", anything else with fmt.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
