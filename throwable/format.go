package throwable

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/philipp01105/logshim/core"
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// maxChain bounds Format on cyclic Unwrap implementations.
const maxChain = 64

// Format renders err and its causes. It returns "" for a nil error.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; err != nil && i < maxChain; i++ {
		if i > 0 {
			b.WriteString("\nCaused by: ")
		}
		writeOne(&b, err)
		err = errors.Unwrap(err)
	}
	return b.String()
}

// FormatOne renders err without its causes.
func FormatOne(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	writeOne(&b, err)
	return b.String()
}

func writeOne(b *strings.Builder, err error) {
	b.WriteString(err.Error())
	b.WriteString(" (")
	b.WriteString(TypeName(err))
	b.WriteByte(')')
	for _, f := range Frames(err) {
		b.WriteString("\n\t")
		b.WriteString(f)
	}
}

// TypeName names the type of err: its Kind when it has one, otherwise the
// dynamic Go type without a leading pointer star.
func TypeName(err error) string {
	if k, ok := err.(Kinder); ok {
		return k.Kind()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

// Frames extracts the frames of err itself, not of its causes.
func Frames(err error) []string {
	switch e := err.(type) {
	case Framer:
		return e.Frames()
	case stackTracer:
		st := e.StackTrace()
		frames := make([]core.CallerInfo, 0, len(st))
		for _, f := range st {
			pc := uintptr(f) - 1
			fn := runtime.FuncForPC(pc)
			if fn == nil {
				continue
			}
			file, line := fn.FileLine(pc)
			frames = append(frames, core.FrameInfo(pc, file, line))
		}
		return descriptors(frames)
	}
	return nil
}

// Root returns the innermost cause of err.
func Root(err error) error {
	for i := 0; i < maxChain; i++ {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return err
}

// UnwrapForeign replaces a *Foreign error with the native error it wraps.
// The returned text describes the foreign layers that were stripped; it is
// empty when err is not foreign.
func UnwrapForeign(err error) (error, string) {
	var parts []string
	for i := 0; i < maxChain; i++ {
		f, ok := err.(*Foreign)
		if !ok {
			break
		}
		parts = append(parts, FormatOne(f))
		err = f.Native
	}
	if len(parts) == 0 {
		return err, ""
	}
	text := strings.Join(parts, "\n")
	if err != nil {
		text += "\nNative exception:"
	}
	return err, text
}
