package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/philipp01105/logshim/logger"
)

type SimpleCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name string
}

// NewSimpleCommand returns the simple command.
func NewSimpleCommand(rootCmd *RootCommand, app *kingpin.Application) *SimpleCommand {
	c := &SimpleCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("simple", "Log one message per level plus a lazy and a formatted message.")
	c.Cmd.Flag("logger", "Application logger name.").Default("Demo::Simple").StringVar(&c.name)

	return c
}

func (c SimpleCommand) Name() string { return c.Cmd.FullCommand() }

func (c SimpleCommand) Run(ctx context.Context) (err error) {
	r, err := c.rootCmd.NewRegistry()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRegistry(r); err == nil {
			err = cerr
		}
	}()

	log, err := r.Get(c.name)
	if err != nil {
		return fmt.Errorf("could not get logger: %w", err)
	}

	steps := []func() error{
		func() error { return log.DebugContext(ctx, "debug message") },
		func() error { return log.InfoContext(ctx, "info message") },
		func() error { return log.WarnContext(ctx, "warn message") },
		func() error { return log.ErrorContext(ctx, "error message") },
		func() error { return log.FatalContext(ctx, "fatal message, the process keeps running") },
		func() error {
			return log.Info(func() any { return fmt.Sprintf("lazy message from %s", log.Name()) })
		},
		func() error { return log.Infof("formatted %d/%d", 1, 2) },
		func() error {
			return log.Silence(func(l *logger.Logger) error {
				_ = l.Info("hidden while silenced")
				return l.Error("still reported while silenced")
			})
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("could not log: %w", err)
		}
	}
	return nil
}
