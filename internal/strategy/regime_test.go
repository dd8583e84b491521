package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haa-backtest/internal/model"
)

var (
	offensive = []string{"SPY", "QQQ", "TLT", "VEA", "VWO", "PDBC", "GLD", "VNQ"}
	defensive = []string{"BIL", "LQD", "IEF"}
)

func newHAA(t *testing.T) *RegimeStrategy {
	t.Helper()
	s, err := NewRegimeStrategy(RegimeParams{
		Signal:    "TIP",
		Offensive: offensive,
		Defensive: defensive,
		TopN:      4,
	})
	require.NoError(t, err)
	return s
}

func scoresOf(pairs ...any) *model.MomentumScores {
	s := model.NewMomentumScores()
	for i := 0; i < len(pairs); i += 2 {
		s.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return s
}

func decide(t *testing.T, s *RegimeStrategy, scores *model.MomentumScores) model.Recommendation {
	t.Helper()
	rec, err := s.Decide(Context{AsOf: time.Now(), Scores: scores})
	require.NoError(t, err)
	return rec
}

func TestRegimeRiskOnTopFour(t *testing.T) {
	s := newHAA(t)
	scores := scoresOf(
		"TIP", 3.2,
		"SPY", 5.1, "QQQ", 4.8, "TLT", -1.0, "VEA", 2.0,
		"VWO", 1.5, "PDBC", 0.5, "GLD", 3.0, "VNQ", -0.2,
		"IEF", 9.0, "BIL", 8.0,
	)

	rec := decide(t, s, scores)
	assert.Equal(t, model.RecommendOffensive, rec.Kind)
	assert.Equal(t, []string{"SPY", "QQQ", "GLD", "VEA"}, rec.Tickers)

	for i := 1; i < len(rec.Tickers); i++ {
		prev, _ := scores.Get(rec.Tickers[i-1])
		cur, _ := scores.Get(rec.Tickers[i])
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func TestRegimeRiskOnFewerThanTopN(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", 0.1, "GLD", -2.0, "SPY", 1.0))
	assert.Equal(t, model.RecommendOffensive, rec.Kind)
	assert.Equal(t, []string{"SPY", "GLD"}, rec.Tickers)
}

func TestRegimeRiskOnTiesKeepInsertionOrder(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", 1.0, "VNQ", 2.0, "SPY", 2.0, "QQQ", 2.0, "GLD", 2.0, "VEA", 2.0))
	assert.Equal(t, []string{"VNQ", "SPY", "QQQ", "GLD"}, rec.Tickers)
}

func TestRegimeRiskOffHoldCash(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", -0.5, "SPY", 9.0, "IEF", -1.0, "LQD", -2.0, "BIL", 0.0))
	assert.Equal(t, model.RecommendCash, rec.Kind)
	assert.True(t, rec.HoldCash())
	assert.Empty(t, rec.Tickers)
}

func TestRegimeRiskOffAllZeroIsCash(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", 0.0, "IEF", 0.0, "LQD", 0.0, "BIL", 0.0))
	assert.True(t, rec.HoldCash())
}

func TestRegimeRiskOffBestDefensive(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", -0.5, "IEF", 0.3, "LQD", -2.0, "BIL", 0.1))
	assert.Equal(t, model.RecommendDefensive, rec.Kind)
	assert.Equal(t, []string{"IEF"}, rec.Tickers)
}

func TestRegimeRiskOffTieGoesToFirst(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", -0.5, "LQD", 0.4, "IEF", 0.4, "BIL", 0.1))
	assert.Equal(t, []string{"LQD"}, rec.Tickers)
}

func TestRegimeRiskOffNoDefensiveScoresIsCash(t *testing.T) {
	s := newHAA(t)
	rec := decide(t, s, scoresOf("TIP", -1.0, "SPY", 3.0))
	assert.True(t, rec.HoldCash())
}

func TestRegimeMissingSignal(t *testing.T) {
	s := newHAA(t)
	_, err := s.Decide(Context{Scores: scoresOf("SPY", 1.0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingSignalScore)
}

func TestRegimeRecommendationInvariant(t *testing.T) {
	s := newHAA(t)
	offSet := map[string]bool{}
	for _, o := range offensive {
		offSet[o] = true
	}
	defSet := map[string]bool{}
	for _, d := range defensive {
		defSet[d] = true
	}

	for _, signal := range []float64{-2, -0.01, 0, 0.01, 2} {
		scores := scoresOf("TIP", signal, "SPY", 1.0, "QQQ", -1.0, "GLD", 0.5, "IEF", 0.2, "BIL", -0.1)
		rec := decide(t, s, scores)
		if signal > 0 {
			assert.Equal(t, model.RecommendOffensive, rec.Kind)
			assert.LessOrEqual(t, len(rec.Tickers), 4)
			for _, tk := range rec.Tickers {
				assert.True(t, offSet[tk], tk)
			}
			continue
		}
		if rec.HoldCash() {
			continue
		}
		require.Len(t, rec.Tickers, 1)
		assert.True(t, defSet[rec.Tickers[0]])
	}
}

func TestNewRegimeStrategyValidation(t *testing.T) {
	_, err := NewRegimeStrategy(RegimeParams{Signal: "", TopN: 4})
	assert.Error(t, err)

	_, err = NewRegimeStrategy(RegimeParams{Signal: "TIP", TopN: 0})
	assert.Error(t, err)

	_, err = NewRegimeStrategy(RegimeParams{Signal: "TIP", TopN: 4, Offensive: []string{"IEF"}, Defensive: []string{"IEF"}})
	assert.Error(t, err)
}
