package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"haa-backtest/internal/backtest"
	"haa-backtest/internal/calendar"
)

func newBacktestCmd(a *app) *cobra.Command {
	var (
		start, end string
		steps      int
		csvPath    string
		asJSON     bool
		failFast   bool
	)
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run the monthly rolling evaluation",
		Example: `  haa backtest --start 2019-01-01 --end 2024-01-31
  haa backtest --start 2019-01-01 --end 2024-01-31 --steps 24 --csv results/haa.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if start == "" || end == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("--start and --end are required when stdin is not a terminal")
				}
				if err := promptDates(os.Stdin, cmd.ErrOrStderr(), &start, &end); err != nil {
					return err
				}
			}
			startDate, err := calendar.ParseDate(start)
			if err != nil {
				return err
			}
			endDate, err := calendar.ParseDate(end)
			if err != nil {
				return err
			}
			if steps == 0 {
				steps = a.cfg.Steps
			}
			if failFast {
				a.cfg.FailFast = true
			}

			engine, err := backtest.FromConfig(a.cfg, a.store())
			if err != nil {
				return err
			}
			res, err := engine.WithLogger(a.logger).Run(cmd.Context(), backtest.Request{
				Start: startDate,
				End:   endDate,
				Steps: steps,
			})
			if err != nil {
				return err
			}

			if csvPath != "" {
				if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
					return err
				}
				if err := backtest.WriteLedgerCSV(csvPath, res); err != nil {
					return err
				}
				a.logger.Info().Str("path", csvPath).Int("rows", len(res.Steps)).Msg("ledger written")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			return backtest.WriteReport(out, res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&start, "start", "", "Start of price data (YYYY-MM-DD)")
	f.StringVar(&end, "end", "", "First evaluation date (YYYY-MM-DD)")
	f.IntVar(&steps, "steps", 0, "Number of monthly evaluations (default from config)")
	f.StringVar(&csvPath, "csv", "", "Optional: write the per-step ledger CSV here")
	f.BoolVar(&asJSON, "json", false, "Print the result as JSON instead of the text report")
	f.Int("workers", 1, "Evaluate up to N steps concurrently")
	f.BoolVar(&failFast, "fail-fast", false, "Abort on the first failed step")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
