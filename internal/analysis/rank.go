package analysis

import (
	"sort"

	"haa-backtest/internal/model"
)

// RankByScore returns the candidates that have a score, sorted descending.
// The sort is stable and starts from the scores' insertion order, so equal
// scores keep the configured instrument order.
func RankByScore(scores *model.MomentumScores, candidates []string) []model.ScoreEntry {
	want := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		want[c] = true
	}
	out := make([]model.ScoreEntry, 0, len(candidates))
	for _, e := range scores.Entries() {
		if want[e.Ticker] {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Best returns the highest-scored candidate; ties go to the earliest in
// insertion order. ok is false when no candidate has a score.
func Best(scores *model.MomentumScores, candidates []string) (model.ScoreEntry, bool) {
	ranked := RankByScore(scores, candidates)
	if len(ranked) == 0 {
		return model.ScoreEntry{}, false
	}
	return ranked[0], true
}
