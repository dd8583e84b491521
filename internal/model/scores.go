package model

import "encoding/json"

// MomentumScores maps ticker to momentum score (percent) and remembers
// insertion order. That order breaks ties during ranking.
type MomentumScores struct {
	order  []string
	values map[string]float64
}

func NewMomentumScores() *MomentumScores {
	return &MomentumScores{values: map[string]float64{}}
}

// Set adds or overwrites a score. New tickers go to the end of the order.
func (s *MomentumScores) Set(ticker string, score float64) {
	if _, ok := s.values[ticker]; !ok {
		s.order = append(s.order, ticker)
	}
	s.values[ticker] = score
}

func (s *MomentumScores) Get(ticker string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.values[ticker]
	return v, ok
}

// Tickers returns scored tickers in insertion order.
func (s *MomentumScores) Tickers() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *MomentumScores) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// ScoreEntry is one ticker/score pair, used for ordered serialization.
type ScoreEntry struct {
	Ticker string  `json:"ticker"`
	Score  float64 `json:"score"`
}

// Entries returns the scores in insertion order.
func (s *MomentumScores) Entries() []ScoreEntry {
	if s == nil {
		return nil
	}
	out := make([]ScoreEntry, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, ScoreEntry{Ticker: t, Score: s.values[t]})
	}
	return out
}

// MarshalJSON keeps the ticker order, which a plain map would lose.
func (s *MomentumScores) MarshalJSON() ([]byte, error) {
	entries := s.Entries()
	if entries == nil {
		entries = []ScoreEntry{}
	}
	return json.Marshal(entries)
}
