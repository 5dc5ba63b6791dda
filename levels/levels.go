package levels

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/philipp01105/logshim/core"
)

// ErrUnsupportedLevel is matched by every *UnsupportedLevelError.
var ErrUnsupportedLevel = errors.New("levels: unsupported level")

// UnsupportedLevelError reports a level value that cannot be mapped.
type UnsupportedLevelError struct {
	Value any
}

func (e *UnsupportedLevelError) Error() string {
	return fmt.Sprintf("levels: unsupported level %#v (%T)", e.Value, e.Value)
}

// Is reports whether target is ErrUnsupportedLevel.
func (e *UnsupportedLevelError) Is(target error) bool {
	return target == ErrUnsupportedLevel
}

// Parse converts v to a core.Level. The boolean result is false when v is
// nil, which callers treat as a no-op.
func Parse(v any) (core.Level, bool, error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case core.Level:
		if !x.Valid() {
			return 0, false, &UnsupportedLevelError{Value: v}
		}
		return x, true, nil
	case string:
		l, err := ParseName(x)
		if err != nil {
			return 0, false, err
		}
		return l, true, nil
	case int:
		return ordinal(int64(x), v)
	case int8:
		return ordinal(int64(x), v)
	case int16:
		return ordinal(int64(x), v)
	case int32:
		return ordinal(int64(x), v)
	case int64:
		return ordinal(x, v)
	case uint:
		return ordinal(int64(x), v)
	case uint8:
		return ordinal(int64(x), v)
	case float64:
		// decoded JSON numbers
		if x != math.Trunc(x) {
			return 0, false, &UnsupportedLevelError{Value: v}
		}
		return ordinal(int64(x), v)
	default:
		return 0, false, &UnsupportedLevelError{Value: v}
	}
}

// ParseName converts a level name, ignoring case and surrounding spaces.
func ParseName(name string) (core.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return core.DebugLevel, nil
	case "info":
		return core.InfoLevel, nil
	case "warn", "warning":
		return core.WarnLevel, nil
	case "error":
		return core.ErrorLevel, nil
	case "fatal":
		return core.FatalLevel, nil
	default:
		return 0, &UnsupportedLevelError{Value: name}
	}
}

// MustParse is like Parse but panics on unsupported values and on nil.
func MustParse(v any) core.Level {
	l, ok, err := Parse(v)
	if err != nil {
		panic(err)
	}
	if !ok {
		panic(&UnsupportedLevelError{Value: v})
	}
	return l
}

func ordinal(n int64, raw any) (core.Level, bool, error) {
	l := core.Level(n)
	if n < int64(core.DebugLevel) || n > int64(core.FatalLevel) {
		return 0, false, &UnsupportedLevelError{Value: raw}
	}
	return l, true, nil
}
