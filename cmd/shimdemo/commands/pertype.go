package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/philipp01105/logshim/logger"
)

type PerTypeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewPerTypeCommand returns the pertype command.
func NewPerTypeCommand(rootCmd *RootCommand, app *kingpin.Application) *PerTypeCommand {
	c := &PerTypeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("pertype", "Log through loggers named after Go types.")

	return c
}

func (c PerTypeCommand) Name() string { return c.Cmd.FullCommand() }

type orderService struct{ log *logger.Logger }

type paymentGateway struct{ log *logger.Logger }

func (s orderService) place(ctx context.Context, id int) error {
	return s.log.InfoContext(ctx, fmt.Sprintf("placing order %d", id))
}

func (g paymentGateway) charge(ctx context.Context, id int) error {
	return g.log.DebugContext(ctx, fmt.Sprintf("charging order %d", id))
}

func (c PerTypeCommand) Run(ctx context.Context) (err error) {
	r, err := c.rootCmd.NewRegistry()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRegistry(r); err == nil {
			err = cerr
		}
	}()

	orders := orderService{log: logger.For[orderService](r)}
	payments := paymentGateway{log: logger.For[*paymentGateway](r)}

	// The package logger is the parent of both type loggers.
	pkgName, _, _ := strings.Cut(orders.log.Name(), "::")
	pkg, err := r.Get(pkgName)
	if err != nil {
		return fmt.Errorf("could not get logger: %w", err)
	}
	pkg.SetTracing(true)
	if err := payments.log.SetLevel("info"); err != nil {
		return err
	}

	for id := 1; id <= 2; id++ {
		if err := orders.place(ctx, id); err != nil {
			return err
		}
		if err := payments.charge(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
