package levels

import "github.com/philipp01105/logshim/core"

// Table is a bidirectional mapping between core levels and a backend's
// native level type N.
type Table[N comparable] struct {
	native  [5]N
	reverse map[N]core.Level
}

// NewTable builds a table from the native values for each core level.
// When two core levels share a native value, the lower one wins on the
// reverse lookup.
func NewTable[N comparable](debug, info, warn, err, fatal N) *Table[N] {
	t := &Table[N]{
		native:  [5]N{debug, info, warn, err, fatal},
		reverse: make(map[N]core.Level, 5),
	}
	for i := len(t.native) - 1; i >= 0; i-- {
		t.reverse[t.native[i]] = core.Level(i)
	}
	return t
}

// Native returns the backend value for l. Invalid levels map to the
// value for FatalLevel or DebugLevel, whichever is nearer.
func (t *Table[N]) Native(l core.Level) N {
	switch {
	case l < core.DebugLevel:
		return t.native[core.DebugLevel]
	case l > core.FatalLevel:
		return t.native[core.FatalLevel]
	}
	return t.native[l]
}

// Level returns the core level for a native value.
func (t *Table[N]) Level(n N) (core.Level, bool) {
	l, ok := t.reverse[n]
	return l, ok
}

// Parse accepts an already-native value in addition to everything the
// package-level Parse accepts.
func (t *Table[N]) Parse(v any) (core.Level, bool, error) {
	if n, ok := v.(N); ok {
		if l, ok := t.reverse[n]; ok {
			return l, true, nil
		}
		if _, isCore := v.(core.Level); !isCore {
			return 0, false, &UnsupportedLevelError{Value: v}
		}
	}
	return Parse(v)
}
