// Package backends builds any of logshim's backends from a name, for the
// demo CLI, configuration and benchmarks.
package backends

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/backend/logrusbackend"
	"github.com/philipp01105/logshim/backend/native"
	"github.com/philipp01105/logshim/backend/slogbackend"
	"github.com/philipp01105/logshim/backend/zapbackend"
	"github.com/philipp01105/logshim/backend/zerologbackend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/formatter"
	"github.com/philipp01105/logshim/handler"
	"github.com/philipp01105/logshim/levels"
)

// Backend names.
const (
	Native  = "native"
	Zap     = "zap"
	Logrus  = "logrus"
	Zerolog = "zerolog"
	Slog    = "slog"
)

// Names lists every backend New can build.
var Names = []string{Native, Zap, Logrus, Zerolog, Slog}

// Output encodings. Pipeline is accepted by the slog backend only: its
// records are rendered by the native handler pipeline through
// handler.SlogHandler.
const (
	Text     = "text"
	JSON     = "json"
	Pipeline = "pipeline"
)

// ErrUnknownBackend is returned for a name not in Names.
var ErrUnknownBackend = errors.New("backends: unknown backend")

// Config selects and configures a backend.
type Config struct {
	// Name is one of Names (default: native).
	Name string
	// Writer receives the output (default: os.Stdout).
	Writer io.Writer
	// Encoding is Text or JSON (default: Text).
	Encoding string
	// Level is the default level of the backend.
	Level core.Level
	// Pattern is the layout of the native backend's text output
	// (default: formatter.LocationPattern).
	Pattern string
	// Handler replaces the native backend's console handler.
	Handler handler.Handler
	// Async makes the native backend's console handler asynchronous.
	Async bool
	// File, when set, also writes every entry to this size-rotated file.
	File string
	// MaxSizeMB is the size that rotates File (default: 100).
	MaxSizeMB int
}

// New builds the backend named by cfg.Name.
func New(cfg Config) (backend.Backend, error) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	json := strings.EqualFold(cfg.Encoding, JSON)

	name := strings.ToLower(cfg.Name)
	if name == "" || name == Native {
		return newNative(cfg, json)
	}
	if name == Slog && strings.EqualFold(cfg.Encoding, Pipeline) {
		return newSlogPipeline(cfg)
	}

	var opts []backend.Option
	if cfg.File != "" {
		rot := &lumberjack.Logger{Filename: cfg.File, MaxSize: cfg.MaxSizeMB}
		cfg.Writer = io.MultiWriter(cfg.Writer, rot)
		opts = append(opts, backend.WithClose(rot.Close))
	}

	switch name {
	case Zap:
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if json {
			enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		c := zapcore.NewCore(enc, zapcore.AddSync(cfg.Writer), zapbackend.Levels.Native(cfg.Level))
		return zapbackend.New(c, opts...), nil
	case Logrus:
		l := logrus.New()
		l.SetOutput(cfg.Writer)
		l.SetLevel(logrusbackend.Levels.Native(cfg.Level))
		if json {
			l.SetFormatter(&logrus.JSONFormatter{})
		} else {
			l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
		}
		return logrusbackend.New(l, opts...), nil
	case Zerolog:
		var w io.Writer = cfg.Writer
		if !json {
			w = zerolog.ConsoleWriter{Out: cfg.Writer, NoColor: true}
		}
		base := zerolog.New(nil).With().Timestamp().Logger().Level(zerologbackend.Levels.Native(cfg.Level))
		return zerologbackend.New(w, base, opts...), nil
	case Slog:
		ho := &slog.HandlerOptions{Level: levels.Slog.Native(cfg.Level)}
		var h slog.Handler = slog.NewTextHandler(cfg.Writer, ho)
		if json {
			h = slog.NewJSONHandler(cfg.Writer, ho)
		}
		return slogbackend.New(h, opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Name)
}

func newNative(cfg Config, json bool) (backend.Backend, error) {
	h, err := nativeHandler(cfg, json)
	if err != nil {
		return nil, err
	}
	return native.New(h, backend.WithDefaultLevel(cfg.Level)), nil
}

func newSlogPipeline(cfg Config) (backend.Backend, error) {
	h, err := nativeHandler(cfg, false)
	if err != nil {
		return nil, err
	}
	sh := handler.NewSlogHandler(h, levels.Slog.Native(cfg.Level))
	opts := []backend.Option{backend.WithClose(h.Close)}
	if sy, ok := h.(interface{ Sync() error }); ok {
		opts = append(opts, backend.WithSync(sy.Sync))
	}
	return slogbackend.New(sh, opts...), nil
}

// nativeHandler builds the console handler, joined with a file handler
// when cfg.File is set.
func nativeHandler(cfg Config, json bool) (handler.Handler, error) {
	var f formatter.Formatter
	if json {
		f = formatter.NewJSONFormatter(formatter.Config{})
	} else {
		pattern := cfg.Pattern
		if pattern == "" {
			pattern = formatter.LocationPattern
		}
		pf, err := formatter.NewPatternFormatter(pattern, formatter.Config{})
		if err != nil {
			return nil, err
		}
		f = pf
	}

	h := cfg.Handler
	if h == nil {
		h = handler.NewConsoleHandler(handler.ConsoleConfig{Writer: cfg.Writer, Formatter: f, Async: cfg.Async})
	}
	if cfg.File != "" {
		fh, err := handler.NewFileHandler(handler.FileConfig{
			Filename:  cfg.File,
			Formatter: f,
			MaxSizeMB: cfg.MaxSizeMB,
		})
		if err != nil {
			return nil, err
		}
		h = handler.NewMultiHandler(h, fh)
	}
	return h, nil
}
