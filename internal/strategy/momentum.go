package strategy

import (
	"time"

	"haa-backtest/internal/calendar"
	"haa-backtest/internal/model"
)

// DefaultLookbackMonths are the four horizons averaged into the composite score.
var DefaultLookbackMonths = []int{1, 3, 6, 12}

// MomentumEngine computes the composite momentum score: the mean of simple
// returns over several trailing horizons, in percent.
//
// Horizons are given in calendar months and converted to business-day row
// offsets on every call, so month length and weekends are accounted for
// against the actual as-of date.
type MomentumEngine struct {
	lookbackMonths []int
}

func NewMomentumEngine(lookbackMonths []int) *MomentumEngine {
	if len(lookbackMonths) == 0 {
		lookbackMonths = DefaultLookbackMonths
	}
	lb := make([]int, len(lookbackMonths))
	copy(lb, lookbackMonths)
	return &MomentumEngine{lookbackMonths: lb}
}

// Offsets returns the business-day row offset for each lookback horizon as of asOf.
func (e *MomentumEngine) Offsets(asOf time.Time) []int {
	out := make([]int, len(e.lookbackMonths))
	for i, m := range e.lookbackMonths {
		out[i] = calendar.BusinessDayCount(calendar.AddMonths(asOf, -m), asOf)
	}
	return out
}

// Required is the minimum number of rows a series needs to be scored as of asOf.
func (e *MomentumEngine) Required(asOf time.Time) int {
	maxOffset := 0
	for _, k := range e.Offsets(asOf) {
		if k > maxOffset {
			maxOffset = k
		}
	}
	return maxOffset + 1
}

// Score computes scores for every panel ticker with enough history at asOf.
// Rows after asOf are ignored. Tickers with fewer than Required rows of their
// own (or a non-positive base price) are left out of the result, so callers
// must not assume every ticker is present.
func (e *MomentumEngine) Score(panel model.PricePanel, asOf time.Time) *model.MomentumScores {
	scores := model.NewMomentumScores()
	p := panel.Through(asOf)
	offsets := e.Offsets(asOf)
	required := e.Required(asOf)

	for _, ticker := range p.Tickers {
		col, ok := p.Column(ticker)
		if !ok || p.ValidRows(ticker) < required {
			continue
		}
		if s, ok := compositeReturn(col, offsets); ok {
			scores.Set(ticker, s)
		}
	}
	return scores
}

// compositeReturn averages (current-past)/past over the offsets, times 100.
// col must hold at least max(offsets)+1 values.
func compositeReturn(col []float64, offsets []int) (float64, bool) {
	last := len(col) - 1
	current := col[last]
	sum := 0.0
	for _, k := range offsets {
		past := col[last-k]
		if past <= 0 {
			return 0, false
		}
		sum += (current - past) / past
	}
	return sum / float64(len(offsets)) * 100, true
}
