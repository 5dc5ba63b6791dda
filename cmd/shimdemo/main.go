// Command shimdemo exercises the logging facades against each backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"

	"github.com/philipp01105/logshim/cmd/shimdemo/commands"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	app := kingpin.New("shimdemo", "Demo and benchmark tool for the logshim facades.")
	app.DefaultEnvars()
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	rootCmd := commands.NewRootCommand(app)

	simpleCmd := commands.NewSimpleCommand(rootCmd, app)
	nestedCmd := commands.NewNestedCommand(rootCmd, app)
	perTypeCmd := commands.NewPerTypeCommand(rootCmd, app)
	benchCmd := commands.NewBenchCommand(rootCmd, app)
	watchCmd := commands.NewWatchCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		simpleCmd.Name():  simpleCmd,
		nestedCmd.Name():  nestedCmd,
		perTypeCmd.Name(): perTypeCmd,
		benchCmd.Name():   benchCmd,
		watchCmd.Name():   watchCmd,
	}

	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				if err := cmds[cmdName].Run(ctx); err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

func main() {
	ctx := context.Background()
	if err := Run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
