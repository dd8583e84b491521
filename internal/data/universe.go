package data

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Instrument describes one ticker's price file.
type Instrument struct {
	Ticker    string    `json:"ticker"`
	Path      string    `json:"path"`
	Available bool      `json:"available"`
	Rows      int       `json:"rows"`
	First     time.Time `json:"first,omitempty"`
	Last      time.Time `json:"last,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Describe reports whether ticker has a readable file and its date range.
func (s *CSVStore) Describe(ticker string) Instrument {
	path := s.Path(ticker)
	inst := Instrument{Ticker: ticker, Path: path}
	pf, err := s.readFile(path)
	if err != nil {
		inst.Error = err.Error()
		return inst
	}
	inst.Available = len(pf.Dates) > 0
	inst.Rows = len(pf.Dates)
	if inst.Available {
		inst.First = pf.Dates[0]
		inst.Last = pf.Dates[len(pf.Dates)-1]
	} else {
		inst.Error = "no rows"
	}
	return inst
}

// ListTickers returns the tickers that have a .csv file in dir, sorted.
func ListTickers(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		out = append(out, e.Name()[:len(e.Name())-len(".csv")])
	}
	sort.Strings(out)
	return out, nil
}
