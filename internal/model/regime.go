package model

// Regime is the market classification for one evaluation date.
// Keep these values stable; they are intended for CSV and JSON output.
type Regime string

const (
	RegimeRiskOn  Regime = "RISK_ON"
	RegimeRiskOff Regime = "RISK_OFF"
)

// RegimeFromSignal classifies a signal score. Zero counts as risk-off.
func RegimeFromSignal(score float64) Regime {
	if score > 0 {
		return RegimeRiskOn
	}
	return RegimeRiskOff
}

// Label is the human-readable form used in text reports.
func (r Regime) Label() string {
	switch r {
	case RegimeRiskOn:
		return "risk-on (offensive)"
	case RegimeRiskOff:
		return "risk-off (defensive)"
	default:
		return string(r)
	}
}

// RecommendationKind tells which branch of the decision produced a Recommendation.
type RecommendationKind string

const (
	RecommendOffensive RecommendationKind = "OFFENSIVE"
	RecommendDefensive RecommendationKind = "DEFENSIVE"
	RecommendCash      RecommendationKind = "CASH"
)

// Recommendation is the holding set for the month after an evaluation date.
//   - OFFENSIVE: up to TopN tickers ranked by score, best first
//   - DEFENSIVE: exactly one ticker
//   - CASH: no tickers
type Recommendation struct {
	Kind    RecommendationKind `json:"kind"`
	Tickers []string           `json:"tickers"`
}

// HoldCash reports whether the recommendation is the cash sentinel.
func (r Recommendation) HoldCash() bool {
	return r.Kind == RecommendCash
}
