package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haa-backtest/internal/model"
)

func TestRankByScore(t *testing.T) {
	s := model.NewMomentumScores()
	s.Set("A", 1)
	s.Set("B", 3)
	s.Set("C", 3)
	s.Set("D", 2)

	ranked := RankByScore(s, []string{"D", "C", "B", "A", "MISSING"})
	require.Len(t, ranked, 4)
	got := []string{}
	for _, e := range ranked {
		got = append(got, e.Ticker)
	}
	assert.Equal(t, []string{"B", "C", "D", "A"}, got)

	assert.Empty(t, RankByScore(s, nil))
}

func TestBest(t *testing.T) {
	s := model.NewMomentumScores()
	s.Set("IEF", 0.4)
	s.Set("BIL", 0.4)

	best, ok := Best(s, []string{"BIL", "IEF"})
	require.True(t, ok)
	assert.Equal(t, "IEF", best.Ticker)

	_, ok = Best(s, []string{"LQD"})
	assert.False(t, ok)
}

func TestReferenceDeviation(t *testing.T) {
	prices := []float64{100, 1, 2, 3, 4}
	dev, err := ReferenceDeviation(prices, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4-2.5, dev, 1e-12)

	_, err = ReferenceDeviation(prices, 6)
	assert.ErrorIs(t, err, model.ErrInsufficientHistory)

	_, err = TrailingMean(prices, 0)
	assert.Error(t, err)
}
