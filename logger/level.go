package logger

import (
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
	FatalLevel = core.FatalLevel
)

// ParseLevel converts a level name, ordinal or Level. The boolean is false
// for nil.
func ParseLevel(v any) (Level, bool, error) {
	return levels.Parse(v)
}
