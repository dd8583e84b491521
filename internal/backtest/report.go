package backtest

import (
	"fmt"
	"io"

	"haa-backtest/internal/calendar"
	"haa-backtest/internal/model"
)

// reportWriter keeps the first write error so the report code can stay flat.
type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// WriteReport prints the human-readable monthly report, one block per step.
func WriteReport(w io.Writer, res *Result) error {
	rw := &reportWriter{w: w}
	rw.printf("HAA backtest %s .. %s, %d steps",
		res.Start.Format(calendar.DateLayout), res.End.Format(calendar.DateLayout), len(res.Steps))
	if res.Failed > 0 {
		rw.printf(" (%d failed)", res.Failed)
	}
	rw.printf("\n")
	for _, s := range res.Steps {
		writeStep(rw, res, s)
	}
	return rw.err
}

// WriteStep prints a single step block.
func WriteStep(w io.Writer, res *Result, s StepResult) error {
	rw := &reportWriter{w: w}
	writeStep(rw, res, s)
	return rw.err
}

func writeStep(rw *reportWriter, res *Result, s StepResult) {
	rw.printf("\n%04d-%02d holdings (as of %s):\n", s.HoldYear, int(s.HoldMonth), s.AsOf.Format(calendar.DateLayout))

	for _, d := range s.Dropped {
		rw.printf("  dropped %s (%s)\n", d.Ticker, d.Status)
	}
	if s.Failed() {
		rw.printf("  error: %s\n", s.Error)
		return
	}

	rw.printf("%s momentum score: %.2f%%\n", s.Signal, s.SignalScore)
	rw.printf("Regime: %s\n", s.Regime.Label())
	if s.Recommend != nil {
		if s.Recommend.HoldCash() {
			rw.printf("All defensive momentum scores are zero or negative. Hold cash.\n")
		}
		for _, t := range s.Recommend.Tickers {
			score, _ := s.Scores.Get(t)
			rw.printf("Recommended: %s (momentum score: %.2f%%)\n", t, score)
		}
	}
	if s.ReferenceDeviation != nil {
		rw.printf("%s deviation from trailing mean: %.4f\n", s.Signal, *s.ReferenceDeviation)
	}

	rw.printf("\nOffensive assets:\n")
	writeScoreTable(rw, s.Scores, res.Offensive)
	rw.printf("\nDefensive assets:\n")
	writeScoreTable(rw, s.Scores, res.Defensive)
}

// writeScoreTable lists tickers in the given order; unscored ones print "-".
func writeScoreTable(rw *reportWriter, scores *model.MomentumScores, tickers []string) {
	for _, t := range tickers {
		if v, ok := scores.Get(t); ok {
			rw.printf("  %-6s %8.2f\n", t, v)
		} else {
			rw.printf("  %-6s %8s\n", t, "-")
		}
	}
}
