package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/internal/backends"
	"github.com/philipp01105/logshim/logger"
	"github.com/philipp01105/logshim/throwable"
)

type BenchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	iterations int
	all        bool
}

// NewBenchCommand returns the bench command.
func NewBenchCommand(rootCmd *RootCommand, app *kingpin.Application) *BenchCommand {
	c := &BenchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("bench", "Time facade calls against backends writing to a discarded output.")
	c.Cmd.Flag("iterations", "Calls per scenario.").Short('n').Default("100000").IntVar(&c.iterations)
	c.Cmd.Flag("all", "Run against every backend instead of the selected one.").BoolVar(&c.all)

	return c
}

func (c BenchCommand) Name() string { return c.Cmd.FullCommand() }

type scenario struct {
	name string
	run  func(l *logger.Logger) error
}

var scenarios = []scenario{
	{"info", func(l *logger.Logger) error { return l.Info("benchmark message") }},
	{"debug-disabled", func(l *logger.Logger) error { return l.Debug("never written") }},
	{"lazy-disabled", func(l *logger.Logger) error {
		return l.Debug(func() any { return "never evaluated" })
	}},
	{"error-chain", func(l *logger.Logger) error {
		return l.Error(throwable.Wrap(throwable.New("root cause"), "outer"))
	}},
}

func (c BenchCommand) Run(ctx context.Context) error {
	if c.iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.iterations)
	}
	names := []string{c.rootCmd.Backend}
	if c.all {
		names = backends.Names
	}

	tw := tabwriter.NewWriter(c.rootCmd.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BACKEND\tSCENARIO\tTRACING\tNS/OP")
	for _, name := range names {
		for _, tracing := range []bool{false, true} {
			for _, s := range scenarios {
				if err := ctx.Err(); err != nil {
					return err
				}
				d, err := c.measure(name, tracing, s)
				if err != nil {
					return fmt.Errorf("%s/%s: %w", name, s.name, err)
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%d\n", name, s.name, tracing, d.Nanoseconds()/int64(c.iterations))
			}
		}
	}
	return tw.Flush()
}

func (c BenchCommand) measure(name string, tracing bool, s scenario) (time.Duration, error) {
	b, err := backends.New(backends.Config{
		Name:     name,
		Writer:   io.Discard,
		Encoding: c.rootCmd.Encoding,
		Level:    core.InfoLevel,
	})
	if err != nil {
		return 0, err
	}
	r := logger.NewRegistry(b)
	defer r.Close()

	l := r.MustGet("Bench::Target")
	l.SetTracing(tracing)

	start := time.Now()
	for i := 0; i < c.iterations; i++ {
		if err := s.run(l); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}
