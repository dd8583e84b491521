package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"haa-backtest/internal/analysis"
	"haa-backtest/internal/calendar"
	"haa-backtest/internal/config"
	"haa-backtest/internal/data"
	"haa-backtest/internal/model"
	"haa-backtest/internal/strategy"
)

// PriceStore loads one ticker's adjusted close over an inclusive window.
type PriceStore interface {
	Load(ctx context.Context, ticker string, start, end time.Time) data.LoadResult
}

// Observer receives step outcomes. *metrics.Recorder satisfies it.
type Observer interface {
	StepEvaluated(regime model.Regime, d time.Duration)
	StepFailed(reason string, d time.Duration)
	InstrumentDropped(ticker string, status data.LoadStatus)
}

type nopObserver struct{}

func (nopObserver) StepEvaluated(model.Regime, time.Duration) {}
func (nopObserver) StepFailed(string, time.Duration)          {}
func (nopObserver) InstrumentDropped(string, data.LoadStatus) {}

// Failure reasons passed to Observer.StepFailed.
const (
	ReasonInsufficientHistory = "insufficient_history"
	ReasonMissingSignal       = "missing_signal"
	ReasonCanceled            = "canceled"
	ReasonOther               = "error"
)

// Options are the run-level settings of an Engine.
type Options struct {
	// Tickers is the load order, which is also the panel column order.
	Tickers   []string
	Signal    string
	Offensive []string
	Defensive []string

	// TrailingDays is the reference window: the minimum panel length and
	// the span of the signal's trailing mean.
	TrailingDays int

	Workers  int
	FailFast bool
}

type Engine struct {
	store    PriceStore
	momentum *strategy.MomentumEngine
	strat    strategy.Classifier
	opts     Options

	logger   zerolog.Logger
	observer Observer
}

func New(store PriceStore, momentum *strategy.MomentumEngine, strat strategy.Classifier, opts Options) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		store:    store,
		momentum: momentum,
		strat:    strat,
		opts:     opts,
		logger:   zerolog.Nop(),
		observer: nopObserver{},
	}
}

// FromConfig wires an Engine from a validated config.
func FromConfig(cfg *config.Config, store PriceStore) (*Engine, error) {
	strat, err := strategy.NewRegimeStrategy(cfg.RegimeParams())
	if err != nil {
		return nil, err
	}
	return New(store, strategy.NewMomentumEngine(cfg.LookbackMonths), strat, Options{
		Tickers:      append([]string(nil), cfg.Tickers...),
		Signal:       cfg.Signal,
		Offensive:    append([]string(nil), cfg.Offensive...),
		Defensive:    append([]string(nil), cfg.Defensive...),
		TrailingDays: cfg.TrailingDays,
		Workers:      cfg.Workers,
		FailFast:     cfg.FailFast,
	}), nil
}

func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.logger = l
	return e
}

func (e *Engine) WithObserver(o Observer) *Engine {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
	return e
}

// Request selects the data window and the number of monthly evaluations.
// The first evaluation is at End; each later one is a month earlier.
type Request struct {
	Start time.Time
	End   time.Time
	Steps int
}

// EvaluationDates returns the as-of dates for req, newest first. Each date is
// one month before the previous one, clamped to the month length, so a run
// ending on Mar 31 continues Feb 29, Jan 29, Dec 29.
func EvaluationDates(end time.Time, steps int) []time.Time {
	out := make([]time.Time, 0, steps)
	cur := calendar.Day(end)
	for i := 0; i < steps; i++ {
		out = append(out, cur)
		cur = calendar.AddMonths(cur, -1)
	}
	return out
}

// Run evaluates req.Steps windows. Step failures are recorded on the step and
// counted in Result.Failed; with FailFast the first one aborts the run.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Steps <= 0 {
		return nil, fmt.Errorf("steps must be > 0")
	}
	start, end := calendar.Day(req.Start), calendar.Day(req.End)
	if end.Before(start) {
		return nil, fmt.Errorf("end %s is before start %s", end.Format(calendar.DateLayout), start.Format(calendar.DateLayout))
	}

	dates := EvaluationDates(end, req.Steps)
	steps := make([]StepResult, len(dates))

	e.logger.Info().
		Str("strategy", e.strat.Name()).
		Str("start", start.Format(calendar.DateLayout)).
		Str("end", end.Format(calendar.DateLayout)).
		Int("steps", req.Steps).
		Int("workers", e.opts.Workers).
		Msg("backtest started")

	var err error
	if e.opts.Workers > 1 {
		err = e.runParallel(ctx, start, dates, steps)
	} else {
		err = e.runSequential(ctx, start, dates, steps)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Start:     start,
		End:       end,
		Steps:     steps,
		Signal:    e.opts.Signal,
		Offensive: append([]string(nil), e.opts.Offensive...),
		Defensive: append([]string(nil), e.opts.Defensive...),
	}
	for _, s := range steps {
		if s.Failed() {
			res.Failed++
		}
	}
	e.logger.Info().Int("steps", len(steps)).Int("failed", res.Failed).Msg("backtest finished")
	return res, nil
}

func (e *Engine) runSequential(ctx context.Context, start time.Time, dates []time.Time, steps []StepResult) error {
	for i, asOf := range dates {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("backtest canceled at step %d: %w", i, err)
		}
		steps[i] = e.evaluate(ctx, i, start, asOf)
		if e.opts.FailFast && steps[i].Failed() {
			return fmt.Errorf("step %d (%s): %w", i, asOf.Format(calendar.DateLayout), steps[i].Err)
		}
	}
	return nil
}

func (e *Engine) runParallel(ctx context.Context, start time.Time, dates []time.Time, steps []StepResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, asOf := range dates {
		i, asOf := i, asOf
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("backtest canceled at step %d: %w", i, err)
			}
			steps[i] = e.evaluate(gctx, i, start, asOf)
			if e.opts.FailFast && steps[i].Failed() {
				return fmt.Errorf("step %d (%s): %w", i, asOf.Format(calendar.DateLayout), steps[i].Err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Evaluate runs a single evaluation at asOf using data from start onwards.
func (e *Engine) Evaluate(ctx context.Context, start, asOf time.Time) StepResult {
	return e.evaluate(ctx, 0, calendar.Day(start), calendar.Day(asOf))
}

func (e *Engine) evaluate(ctx context.Context, index int, start, asOf time.Time) StepResult {
	began := time.Now()
	year, month := calendar.HoldingMonth(asOf)
	step := StepResult{
		Index:     index,
		AsOf:      asOf,
		HoldYear:  year,
		HoldMonth: month,
		Signal:    e.opts.Signal,
		Offsets:   e.momentum.Offsets(asOf),
	}
	log := e.logger.With().Int("step", index).Str("as_of", asOf.Format(calendar.DateLayout)).Logger()

	panel, dropped := e.buildPanel(ctx, start, asOf)
	step.Dropped = dropped
	step.Rows = panel.Len()
	for _, d := range dropped {
		log.Warn().Str("ticker", d.Ticker).Str("status", string(d.Status)).Str("reason", d.Reason).Msg("instrument dropped")
		e.observer.InstrumentDropped(d.Ticker, d.Status)
	}

	if err := ctx.Err(); err != nil {
		return e.fail(log, step, err, began)
	}

	required := max(e.opts.TrailingDays, e.momentum.Required(asOf))
	if panel.Len() < required {
		return e.fail(log, step, fmt.Errorf("%w: have %d rows, need %d", model.ErrInsufficientHistory, panel.Len(), required), began)
	}

	step.Scores = e.momentum.Score(panel, asOf)

	regime, signal, err := e.strat.Classify(step.Scores)
	if err != nil {
		return e.fail(log, step, err, began)
	}
	step.Regime = regime
	step.SignalScore = signal

	if col, ok := panel.Column(e.opts.Signal); ok {
		if dev, err := analysis.ReferenceDeviation(col, e.opts.TrailingDays); err == nil {
			step.ReferenceDeviation = &dev
		}
	}

	rec, err := e.strat.Decide(strategy.Context{AsOf: asOf, Scores: step.Scores})
	if err != nil {
		return e.fail(log, step, err, began)
	}
	step.Recommend = &rec

	e.observer.StepEvaluated(regime, time.Since(began))
	log.Info().
		Str("regime", string(regime)).
		Float64("signal_score", signal).
		Strs("tickers", rec.Tickers).
		Int("rows", step.Rows).
		Msg("step evaluated")
	return step
}

func (e *Engine) fail(log zerolog.Logger, step StepResult, err error, began time.Time) StepResult {
	step.Err = err
	step.Error = err.Error()
	e.observer.StepFailed(failureReason(err), time.Since(began))
	log.Error().Err(err).Int("rows", step.Rows).Msg("step failed")
	return step
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientHistory):
		return ReasonInsufficientHistory
	case errors.Is(err, model.ErrMissingSignalScore):
		return ReasonMissingSignal
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonOther
	}
}

// buildPanel loads every configured ticker over [start, asOf] and aligns the
// usable ones on the signal's dates. Tickers that fail to load are returned
// as dropped.
func (e *Engine) buildPanel(ctx context.Context, start, asOf time.Time) (model.PricePanel, []DroppedInstrument) {
	series := make([]model.PriceSeries, 0, len(e.opts.Tickers))
	var dropped []DroppedInstrument
	for _, ticker := range e.opts.Tickers {
		res := e.store.Load(ctx, ticker, start, asOf)
		if !res.OK() {
			reason := ""
			if res.Err != nil {
				reason = res.Err.Error()
			}
			dropped = append(dropped, DroppedInstrument{Ticker: ticker, Status: res.Status, Reason: reason})
			continue
		}
		series = append(series, res.Series)
	}
	return model.NewPricePanelOn(e.opts.Signal, series).Through(asOf), dropped
}
