package levels

import (
	"log/slog"

	"github.com/philipp01105/logshim/core"
)

// SlogFatal is the slog level used for FatalLevel records.
const SlogFatal = slog.LevelError + 4

// Slog maps core levels to log/slog levels.
var Slog = NewTable(slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError, SlogFatal)

// FromSlog converts any slog level, including the ones between the named
// constants, to the nearest core level at or below it.
func FromSlog(l slog.Level) core.Level {
	switch {
	case l >= SlogFatal:
		return core.FatalLevel
	case l >= slog.LevelError:
		return core.ErrorLevel
	case l >= slog.LevelWarn:
		return core.WarnLevel
	case l >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
