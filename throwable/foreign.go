package throwable

import "fmt"

// Foreign is an error raised in another runtime and carried across into
// Go. Runtime names the origin ("ruby", "python", "js", ...). Native is
// the Go error the foreign one ultimately wraps, if any.
type Foreign struct {
	Runtime string
	Type    string
	Message string
	Trace   []string
	Native  error
}

func (f *Foreign) Error() string {
	if f.Message == "" && f.Native != nil {
		return f.Native.Error()
	}
	return f.Message
}

// Unwrap returns the native error.
func (f *Foreign) Unwrap() error { return f.Native }

// Kind returns the foreign type name qualified by its runtime.
func (f *Foreign) Kind() string {
	t := f.Type
	if t == "" {
		t = "Error"
	}
	if f.Runtime == "" {
		return t
	}
	return fmt.Sprintf("%s %s", f.Runtime, t)
}

// Frames returns the foreign backtrace.
func (f *Foreign) Frames() []string { return f.Trace }
