package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/philipp01105/logshim/throwable"
)

type NestedCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	depth int
}

// NewNestedCommand returns the nested command.
func NewNestedCommand(rootCmd *RootCommand, app *kingpin.Application) *NestedCommand {
	c := &NestedCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("nested", "Log exception chains and foreign errors.")
	c.Cmd.Flag("depth", "Number of wrapped causes.").Default("3").IntVar(&c.depth)

	return c
}

func (c NestedCommand) Name() string { return c.Cmd.FullCommand() }

func (c NestedCommand) Run(ctx context.Context) (err error) {
	r, err := c.rootCmd.NewRegistry()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRegistry(r); err == nil {
			err = cerr
		}
	}()

	log, err := r.Get("Demo::Nested")
	if err != nil {
		return fmt.Errorf("could not get logger: %w", err)
	}

	chain := error(throwable.NewKind("IOError", "disk unavailable"))
	for i := 1; i <= c.depth; i++ {
		chain = throwable.Wrap(chain, fmt.Sprintf("level %d failed", i))
	}

	_, statErr := os.Stat("/nonexistent/shimdemo")
	foreign := errors.Wrap(statErr, "could not read settings")

	steps := []func() error{
		func() error { return log.ErrorContext(ctx, chain) },
		func() error { return log.LogError("request failed", chain) },
		func() error { return log.ErrorContext(ctx, foreign) },
		func() error { return log.WarnContext(ctx, "retrying", fmt.Errorf("attempt 1: %w", chain)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("could not log: %w", err)
		}
	}
	return nil
}
