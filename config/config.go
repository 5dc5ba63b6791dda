package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/internal/backends"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/logger"
)

// Format is a configuration encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const delim = "/"

// Backend selects the backend a program builds from the file.
type Backend struct {
	Name     string `koanf:"name"`
	Encoding string `koanf:"encoding"`
	Level    string `koanf:"level"`
	Pattern  string `koanf:"pattern"`
	// File adds a size-rotated log file next to the program's output.
	File      string `koanf:"file"`
	MaxSizeMB int    `koanf:"max_size_mb"`
	Async     bool   `koanf:"async"`
}

// File is a loaded configuration.
type File struct {
	// Backend is the optional backend section.
	Backend Backend
	// Root holds the root logger's attributes.
	Root map[string]any
	// Loggers holds attributes per application logger name.
	Loggers map[string]map[string]any
}

// Load reads the file at path. The format follows the extension: .yaml,
// .yml or .json.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return LoadBytes(data, format)
}

// LoadBytes parses data. Empty data yields an empty File.
func LoadBytes(data []byte, format Format) (*File, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(delim)
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	f := &File{Loggers: make(map[string]map[string]any)}
	if err := k.UnmarshalWithConf("backend", &f.Backend, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: backend: %w", ErrParseFailed, err)
	}
	var err error
	if f.Root, err = section(k, "root"); err != nil {
		return nil, err
	}
	for _, name := range k.MapKeys("loggers") {
		attrs, err := section(k, "loggers"+delim+name)
		if err != nil {
			return nil, err
		}
		f.Loggers[name] = attrs
	}
	return f, nil
}

func section(k *koanf.Koanf, path string) (map[string]any, error) {
	if !k.Exists(path) {
		return nil, nil
	}
	m, ok := k.Get(path).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected a mapping", ErrParseFailed, path)
	}
	return m, nil
}

// Apply sets the root and logger attributes on r. Loggers are applied in
// name order; every failure is reported, not only the first.
func (f *File) Apply(r *logger.Registry) error {
	var errs error
	if err := apply(r.Root(), f.Root); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: root: %w", err))
	}

	names := make([]string, 0, len(f.Loggers))
	for name := range f.Loggers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		l, err := r.Get(name)
		if err == nil {
			err = apply(l, f.Loggers[name])
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("config: logger %q: %w", name, err))
		}
	}
	return errs
}

func apply(l *logger.Logger, m map[string]any) error {
	attrs, err := logger.AttributesFromMap(m)
	if err != nil {
		return err
	}
	return l.SetAttributes(attrs)
}

// NewBackend builds the backend described by the backend section,
// writing to w.
func (f *File) NewBackend(w io.Writer) (backend.Backend, error) {
	cfg := backends.Config{
		Name:      f.Backend.Name,
		Writer:    w,
		Encoding:  f.Backend.Encoding,
		Pattern:   f.Backend.Pattern,
		Level:     core.InfoLevel,
		File:      f.Backend.File,
		MaxSizeMB: f.Backend.MaxSizeMB,
		Async:     f.Backend.Async,
	}
	if f.Backend.Level != "" {
		lvl, err := levels.ParseName(f.Backend.Level)
		if err != nil {
			return nil, fmt.Errorf("config: backend: %w", err)
		}
		cfg.Level = lvl
	}
	return backends.New(cfg)
}

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}
