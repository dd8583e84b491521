package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"haa-backtest/internal/config"
	"haa-backtest/internal/data"
	"haa-backtest/internal/logger"
)

// app holds the state shared by every subcommand after PersistentPreRunE.
type app struct {
	cfgPath   string
	dataDir   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "haa",
		Short:         "Hybrid asset allocation backtester",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "Path to YAML config (built-in defaults when empty)")
	pf.StringVar(&a.dataDir, "data-dir", "", "Directory of <TICKER>.csv price files (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: console or json")

	root.AddCommand(newBacktestCmd(a))
	root.AddCommand(newScoreCmd(a))
	root.AddCommand(newUniverseCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgPath != "" {
		cfg, err = config.LoadUnchecked(a.cfgPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, closer, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = l
	a.closer = closer
	return nil
}

// teardown releases the log file opened by setup.
func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("close log output: %w", err)
	}
	return nil
}

func (a *app) store() *data.CSVStore {
	return data.NewCSVStore(a.cfg.DataDir, data.NewFileCache(a.cfg.CacheTTL), a.logger)
}
