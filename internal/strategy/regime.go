package strategy

import (
	"fmt"

	"haa-backtest/internal/analysis"
	"haa-backtest/internal/model"
)

// RegimeParams configures the allocation decision.
//   - Signal: ticker whose score decides the regime
//   - Offensive: candidates in risk-on months
//   - Defensive: candidates in risk-off months
//   - TopN: how many offensive tickers to hold
type RegimeParams struct {
	Signal    string
	Offensive []string
	Defensive []string
	TopN      int
}

// RegimeStrategy is the regime classifier: a positive signal score selects
// the TopN offensive tickers, otherwise the best defensive ticker, or cash
// when no defensive ticker has a positive score.
type RegimeStrategy struct {
	Params RegimeParams
}

var _ Classifier = (*RegimeStrategy)(nil)

func NewRegimeStrategy(params RegimeParams) (*RegimeStrategy, error) {
	if params.Signal == "" {
		return nil, fmt.Errorf("signal ticker is required")
	}
	if params.TopN <= 0 {
		return nil, fmt.Errorf("top_n must be > 0")
	}
	seen := map[string]bool{}
	for _, t := range params.Offensive {
		seen[t] = true
	}
	for _, t := range params.Defensive {
		if seen[t] {
			return nil, fmt.Errorf("ticker %s is both offensive and defensive", t)
		}
	}
	return &RegimeStrategy{Params: params}, nil
}

func (s *RegimeStrategy) Name() string { return "haa" }

// Classify returns the regime and the signal score it was derived from.
func (s *RegimeStrategy) Classify(scores *model.MomentumScores) (model.Regime, float64, error) {
	signal, ok := scores.Get(s.Params.Signal)
	if !ok {
		return "", 0, fmt.Errorf("%s: %w", s.Params.Signal, model.ErrMissingSignalScore)
	}
	return model.RegimeFromSignal(signal), signal, nil
}

func (s *RegimeStrategy) Decide(ctx Context) (model.Recommendation, error) {
	regime, _, err := s.Classify(ctx.Scores)
	if err != nil {
		return model.Recommendation{}, err
	}

	if regime == model.RegimeRiskOn {
		ranked := analysis.RankByScore(ctx.Scores, s.Params.Offensive)
		if len(ranked) > s.Params.TopN {
			ranked = ranked[:s.Params.TopN]
		}
		tickers := make([]string, 0, len(ranked))
		for _, e := range ranked {
			tickers = append(tickers, e.Ticker)
		}
		return model.Recommendation{Kind: model.RecommendOffensive, Tickers: tickers}, nil
	}

	// 0 is not positive: a flat defensive basket means cash.
	best, ok := analysis.Best(ctx.Scores, s.Params.Defensive)
	if !ok || best.Score <= 0 {
		return model.Recommendation{Kind: model.RecommendCash, Tickers: []string{}}, nil
	}
	return model.Recommendation{Kind: model.RecommendDefensive, Tickers: []string{best.Ticker}}, nil
}
