package models

import "haa-backtest/internal/model"

// BacktestResponse represents the response from a backtest run
type BacktestResponse struct {
	ID     string        `json:"id"`
	Status string        `json:"status"` // "completed" or "partial" when some steps failed
	Window TimeWindow    `json:"window"`
	Failed int           `json:"failed"`
	Steps  []StepSummary `json:"steps"`
}

// TimeWindow represents a date range
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StepSummary is one monthly evaluation
type StepSummary struct {
	Index     int    `json:"index"`
	AsOf      string `json:"as_of"`
	HoldMonth string `json:"hold_month"` // YYYY-MM
	Rows      int    `json:"rows"`

	Signal             string                `json:"signal"`
	SignalScore        *float64              `json:"signal_score,omitempty"`
	Regime             string                `json:"regime,omitempty"`
	Recommendation     *model.Recommendation `json:"recommendation,omitempty"`
	Scores             []model.ScoreEntry    `json:"scores,omitempty"`
	ReferenceDeviation *float64              `json:"reference_deviation,omitempty"`

	Dropped []DroppedInfo `json:"dropped,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// DroppedInfo names an instrument excluded from a step
type DroppedInfo struct {
	Ticker string `json:"ticker"`
	Status string `json:"status"` // "UNAVAILABLE" or "INCOMPLETE"
	Reason string `json:"reason,omitempty"`
}

// RankResponse represents the response from ranking instruments
type RankResponse struct {
	AsOf     string    `json:"as_of"`
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked instrument
type Ranking struct {
	Rank   int     `json:"rank"`
	Ticker string  `json:"ticker"`
	Role   string  `json:"role"`
	Score  float64 `json:"score"`
}

// UniverseResponse lists the configured instruments
type UniverseResponse struct {
	Signal      string           `json:"signal"`
	Offensive   []string         `json:"offensive"`
	Defensive   []string         `json:"defensive"`
	Instruments []InstrumentInfo `json:"instruments"`
}

// InstrumentInfo represents one instrument and the state of its price file
type InstrumentInfo struct {
	Ticker    string `json:"ticker"`
	Role      string `json:"role"` // "signal", "offensive", "defensive" or "other"
	Available bool   `json:"available"`
	Rows      int    `json:"rows"`
	First     string `json:"first,omitempty"`
	Last      string `json:"last,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "int", "string", "[]int", "[]string"
	Description string `json:"description"`
	Value       any    `json:"value"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
