package logger

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidAttribute is returned for a recognized attribute holding a
// value of the wrong type.
var ErrInvalidAttribute = errors.New("logger: invalid attribute")

// Attributes are per-logger settings applied field by field. Nil fields
// are left alone.
type Attributes struct {
	// Level is anything the backend can parse.
	Level any
	// Tracing publishes call locations to the context when true.
	Tracing *bool
	// Formatter renders messages.
	Formatter Formatter
}

// Bool returns a pointer to b, for Attributes.Tracing.
func Bool(b bool) *bool { return &b }

// AttributesFromMap reads Attributes from untyped input such as decoded
// configuration. Recognized keys are "level", "tracing" (or "trace") and
// "formatter"; other keys are ignored. A nil map yields nil.
//
// Tracing accepts a bool or a string understood by strconv.ParseBool.
// Formatter accepts a Formatter or the name of a built-in one. The level
// is checked when the attributes are applied.
func AttributesFromMap(m map[string]any) (*Attributes, error) {
	if m == nil {
		return nil, nil
	}
	a := &Attributes{}
	for k, v := range m {
		if v == nil {
			continue
		}
		switch k {
		case "level":
			a.Level = v
		case "tracing", "trace":
			on, err := parseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAttribute, k, err)
			}
			a.Tracing = &on
		case "formatter":
			f, err := parseFormatter(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAttribute, k, err)
			}
			a.Formatter = f
		}
	}
	return a, nil
}

func parseBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(x)
	}
	return false, fmt.Errorf("unexpected %T", v)
}

func parseFormatter(v any) (Formatter, error) {
	switch x := v.(type) {
	case Formatter:
		return x, nil
	case string:
		if f, ok := FormatterByName(x); ok {
			return f, nil
		}
		return nil, fmt.Errorf("unknown formatter %q", x)
	}
	return nil, fmt.Errorf("unexpected %T", v)
}
