package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"haa-backtest/internal/calendar"
)

// WriteLedgerCSV writes one row per step to path.
func WriteLedgerCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLedger(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteLedger(out io.Writer, res *Result) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"as_of",
		"hold_month",
		"rows",
		"signal",
		"signal_score",
		"regime",
		"recommendation",
		"tickers",
		"reference_deviation",
		"dropped",
		"error",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range res.Steps {
		row := []string{
			strconv.Itoa(s.Index),
			s.AsOf.Format(calendar.DateLayout),
			fmt.Sprintf("%04d-%02d", s.HoldYear, int(s.HoldMonth)),
			strconv.Itoa(s.Rows),
			s.Signal,
			"",
			string(s.Regime),
			"",
			"",
			"",
			droppedTickers(s.Dropped),
			s.Error,
		}
		if !s.Failed() {
			row[5] = fmtFloat(s.SignalScore)
		}
		if s.Recommend != nil {
			row[7] = string(s.Recommend.Kind)
			row[8] = strings.Join(s.Recommend.Tickers, "|")
		}
		if s.ReferenceDeviation != nil {
			row[9] = fmtFloat(*s.ReferenceDeviation)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func droppedTickers(dropped []DroppedInstrument) string {
	names := make([]string, 0, len(dropped))
	for _, d := range dropped {
		names = append(names, d.Ticker)
	}
	return strings.Join(names, "|")
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
