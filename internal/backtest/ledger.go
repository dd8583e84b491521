package backtest

import (
	"time"

	"haa-backtest/internal/data"
	"haa-backtest/internal/model"
)

// DroppedInstrument is a ticker left out of one step's price panel.
type DroppedInstrument struct {
	Ticker string          `json:"ticker"`
	Status data.LoadStatus `json:"status"`
	Reason string          `json:"reason"`
}

// StepResult is the outcome of one rolling evaluation.
// This is the primary artifact for "what was recommended" in a backtest.
type StepResult struct {
	Index int       `json:"index"`
	AsOf  time.Time `json:"as_of"`

	HoldYear  int        `json:"hold_year"`
	HoldMonth time.Month `json:"hold_month"`

	// Rows is the number of aligned panel rows; Offsets the business-day
	// lookbacks used for scoring.
	Rows    int   `json:"rows"`
	Offsets []int `json:"offsets"`

	Signal      string                `json:"signal"`
	SignalScore float64               `json:"signal_score"`
	Regime      model.Regime          `json:"regime,omitempty"`
	Recommend   *model.Recommendation `json:"recommendation,omitempty"`
	Scores      *model.MomentumScores `json:"scores,omitempty"`

	// ReferenceDeviation is the signal's latest price minus its trailing
	// mean. Informational only.
	ReferenceDeviation *float64 `json:"reference_deviation,omitempty"`

	Dropped []DroppedInstrument `json:"dropped,omitempty"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the step ended without a recommendation.
func (s StepResult) Failed() bool { return s.Err != nil }

type Result struct {
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	Steps []StepResult `json:"steps"`

	Signal    string   `json:"signal"`
	Offensive []string `json:"offensive"`
	Defensive []string `json:"defensive"`

	Failed int `json:"failed"`
}
