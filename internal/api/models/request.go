package models

// BacktestRequest represents the request body for running a backtest
type BacktestRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD, first row of price data
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD, first evaluation date
	Steps     int    `json:"steps,omitempty" binding:"omitempty,gte=1,lte=600"`

	// IncludeScores adds the full per-ticker score list to every step.
	IncludeScores bool `json:"include_scores,omitempty"`
}

// ScoresRequest represents a single-date scoring query
type ScoresRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	AsOf      string `form:"as_of" binding:"required"`
}

// RankRequest represents a request to rank instruments by momentum
type RankRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	AsOf      string `form:"as_of" binding:"required"`
	Group     string `form:"group,omitempty" binding:"omitempty,oneof=all offensive defensive"` // default: all
	Limit     int    `form:"limit,omitempty" binding:"omitempty,gte=1"`
}
