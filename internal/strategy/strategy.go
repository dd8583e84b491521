package strategy

import (
	"time"

	"haa-backtest/internal/model"
)

// Context is everything a strategy sees for one evaluation date.
type Context struct {
	AsOf   time.Time
	Scores *model.MomentumScores
}

type Strategy interface {
	Name() string
	Decide(ctx Context) (model.Recommendation, error)
}

// Classifier is a Strategy that also reports the regime behind its decision.
type Classifier interface {
	Strategy
	Classify(scores *model.MomentumScores) (model.Regime, float64, error)
}
