package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"haa-backtest/internal/backtest"
	"haa-backtest/internal/calendar"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		start, asOf string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every instrument at one date and print the recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := calendar.ParseDate(start)
			if err != nil {
				return err
			}
			asOfDate, err := calendar.ParseDate(asOf)
			if err != nil {
				return err
			}

			engine, err := backtest.FromConfig(a.cfg, a.store())
			if err != nil {
				return err
			}
			step := engine.WithLogger(a.logger).Evaluate(cmd.Context(), startDate, asOfDate)
			if step.Failed() {
				return fmt.Errorf("score %s: %w", asOf, step.Err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, step)
			}
			return backtest.WriteStep(out, &backtest.Result{
				Signal:    a.cfg.Signal,
				Offensive: a.cfg.Offensive,
				Defensive: a.cfg.Defensive,
			}, step)
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "", "Start of price data (YYYY-MM-DD)")
	f.StringVar(&asOf, "as-of", "", "Evaluation date (YYYY-MM-DD)")
	f.BoolVar(&asJSON, "json", false, "Print the step as JSON")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("as-of")
	return cmd
}
