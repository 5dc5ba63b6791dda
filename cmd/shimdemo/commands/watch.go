package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/philipp01105/logshim/config"
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval time.Duration
	debounce time.Duration
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Log periodically while reloading the configuration file on change.")
	c.Cmd.Flag("interval", "Time between log rounds.").Default("1s").DurationVar(&c.interval)
	c.Cmd.Flag("debounce", "Delay before a changed file is reloaded.").Default("100ms").DurationVar(&c.debounce)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) (err error) {
	if c.rootCmd.ConfigPath == "" {
		return errors.New("watch requires --config")
	}
	r, err := c.rootCmd.NewRegistry()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRegistry(r); err == nil {
			err = cerr
		}
	}()

	log, err := r.Get("Demo::Watch")
	if err != nil {
		return fmt.Errorf("could not get logger: %w", err)
	}

	w, err := config.Watch(c.rootCmd.ConfigPath, r,
		config.WithDebounce(c.debounce),
		config.WithCallback(func(_ *config.File, err error) {
			if err != nil {
				_ = r.Root().LogError("configuration reload failed", err)
				return
			}
			_ = r.Root().Info("configuration reloaded")
		}),
	)
	if err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- w.Start(ctx) }()
	defer func() {
		_ = w.Stop()
		<-watchErr
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for round := 1; ; round++ {
		_ = log.Debugf("round %d: debug", round)
		_ = log.Infof("round %d: info", round)
		_ = log.Warnf("round %d: warn", round)

		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			watchErr <- err
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-ticker.C:
		}
	}
}
