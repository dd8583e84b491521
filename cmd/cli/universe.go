package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"haa-backtest/internal/calendar"
	"haa-backtest/internal/data"
)

func newUniverseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "universe",
		Short: "List configured instruments and the state of their price files",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data dir: %s\n", a.cfg.DataDir)
			fmt.Fprintf(out, "%-6s %-10s %-9s %-6s %-10s %-10s\n", "ticker", "role", "available", "rows", "first", "last")
			for _, t := range a.cfg.Tickers {
				inst := store.Describe(t)
				fmt.Fprintf(out, "%-6s %-10s %-9t %-6d %-10s %-10s%s\n",
					t, a.cfg.Role(t), inst.Available, inst.Rows,
					firstDate(inst), lastDate(inst), errSuffix(inst))
			}

			// price files present on disk but not configured
			onDisk, err := data.ListTickers(a.cfg.DataDir)
			if err != nil {
				a.logger.Warn().Err(err).Str("data_dir", a.cfg.DataDir).Msg("could not list data dir")
				return nil
			}
			var extra []string
			for _, t := range onDisk {
				if !slices.Contains(a.cfg.Tickers, t) {
					extra = append(extra, t)
				}
			}
			if len(extra) > 0 {
				fmt.Fprintf(out, "unconfigured files: %s\n", strings.Join(extra, ", "))
			}
			return nil
		},
	}
}

func firstDate(inst data.Instrument) string {
	if !inst.Available {
		return "-"
	}
	return inst.First.Format(calendar.DateLayout)
}

func lastDate(inst data.Instrument) string {
	if !inst.Available {
		return "-"
	}
	return inst.Last.Format(calendar.DateLayout)
}

func errSuffix(inst data.Instrument) string {
	if inst.Error == "" {
		return ""
	}
	return "  " + inst.Error
}
