package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/philipp01105/logshim/config"
	"github.com/philipp01105/logshim/internal/backends"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/logger"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Backend    string
	Encoding   string
	Level      string
	ConfigPath string
	File       string
	Tracing    bool

	// Global instances.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("backend", "Backend the facades write to.").Short('b').Default(backends.Native).EnumVar(&c.Backend, backends.Names...)
	app.Flag("encoding", "Backend output encoding; pipeline routes the slog backend through the native handlers.").Default(backends.Text).EnumVar(&c.Encoding, backends.Text, backends.JSON, backends.Pipeline)
	app.Flag("level", "Default level of the backend.").Default("debug").StringVar(&c.Level)
	app.Flag("config", "YAML or JSON logging configuration file. Its backend section overrides the backend flags.").Envar("SHIMDEMO_CONFIG").StringVar(&c.ConfigPath)
	app.Flag("file", "Also write to this size-rotated log file.").StringVar(&c.File)
	app.Flag("tracing", "Enable location tracing on the root logger.").BoolVar(&c.Tracing)

	return c
}

// NewRegistry builds the registry every command logs through. Log output
// goes to stdout, so it can be piped apart from errors.
func (c *RootCommand) NewRegistry() (*logger.Registry, error) {
	if c.ConfigPath != "" {
		f, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		if f.Backend.Name == "" {
			f.Backend.Name = c.Backend
		}
		if f.Backend.Encoding == "" {
			f.Backend.Encoding = c.Encoding
		}
		if f.Backend.Level == "" {
			f.Backend.Level = c.Level
		}
		if f.Backend.File == "" {
			f.Backend.File = c.File
		}
		b, err := f.NewBackend(c.Stdout)
		if err != nil {
			return nil, fmt.Errorf("could not create backend: %w", err)
		}
		r := logger.NewRegistry(b)
		c.setup(r)
		if err := f.Apply(r); err != nil {
			return nil, fmt.Errorf("could not apply configuration: %w", err)
		}
		return r, nil
	}

	lvl, err := levels.ParseName(c.Level)
	if err != nil {
		return nil, err
	}
	b, err := backends.New(backends.Config{
		Name:     c.Backend,
		Writer:   c.Stdout,
		Encoding: c.Encoding,
		Level:    lvl,
		File:     c.File,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create backend: %w", err)
	}
	r := logger.NewRegistry(b)
	c.setup(r)
	return r, nil
}

func (c *RootCommand) setup(r *logger.Registry) {
	if c.Tracing {
		r.Root().SetTracing(true)
	}
}

func closeRegistry(r *logger.Registry) error {
	if err := r.Flush(); err != nil && !isBadSync(err) {
		return err
	}
	return r.Close()
}

// Syncing a terminal or pipe fails on some platforms.
func isBadSync(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
