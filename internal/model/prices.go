package model

import (
	"math"
	"sort"
	"time"
)

// PriceSeries is one instrument's adjusted-close history, date-ascending,
// with no missing values.
type PriceSeries struct {
	Ticker string
	Dates  []time.Time
	Prices []float64
}

func (s PriceSeries) Len() int { return len(s.Prices) }

// PricePanel holds several series aligned to one ascending date index,
// taken from a single series (normally the signal instrument). Columns of
// instruments listed after the index starts hold NaN until their first
// price; Starts records that first usable row so short histories can be
// told apart from the index length.
// Tickers keeps the configured instrument order; it is the iteration order
// everywhere downstream.
type PricePanel struct {
	Dates   []time.Time
	Tickers []string
	Columns map[string][]float64
	Starts  map[string]int
}

// NewPricePanel aligns series on the dates of the first series.
func NewPricePanel(series []PriceSeries) PricePanel {
	return NewPricePanelOn("", series)
}

// NewPricePanelOn aligns series on the dates of the index series. When index
// is empty or not among series, the first series is used. Dates another
// series has but the index lacks are dropped; dates it lacks after its first
// price carry the previous price forward. Series order is preserved.
func NewPricePanelOn(index string, series []PriceSeries) PricePanel {
	p := PricePanel{Columns: map[string][]float64{}, Starts: map[string]int{}}
	if len(series) == 0 {
		return p
	}

	base := series[0]
	for _, s := range series {
		if s.Ticker == index {
			base = s
			break
		}
	}

	dates := make([]time.Time, 0, len(base.Dates))
	rows := make(map[int64]int, len(base.Dates))
	for _, d := range base.Dates {
		if _, dup := rows[d.Unix()]; dup {
			continue
		}
		rows[d.Unix()] = -1
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i, d := range dates {
		rows[d.Unix()] = i
	}
	p.Dates = dates

	for _, s := range series {
		col := make([]float64, len(dates))
		have := make([]bool, len(dates))
		for i, d := range s.Dates {
			if j, ok := rows[d.Unix()]; ok {
				col[j] = s.Prices[i]
				have[j] = true
			}
		}
		first := len(dates)
		for j := range col {
			switch {
			case have[j]:
				if first == len(dates) {
					first = j
				}
			case first < j:
				col[j] = col[j-1]
			default:
				col[j] = math.NaN()
			}
		}
		p.Tickers = append(p.Tickers, s.Ticker)
		p.Columns[s.Ticker] = col
		p.Starts[s.Ticker] = first
	}
	return p
}

// Len is the number of aligned rows.
func (p PricePanel) Len() int { return len(p.Dates) }

// Column returns the aligned prices for ticker.
func (p PricePanel) Column(ticker string) ([]float64, bool) {
	col, ok := p.Columns[ticker]
	return col, ok
}

// ValidRows is the number of rows holding a price for ticker, counted from
// its first observation to the end of the panel.
func (p PricePanel) ValidRows(ticker string) int {
	col, ok := p.Columns[ticker]
	if !ok {
		return 0
	}
	start, ok := p.Starts[ticker]
	if !ok {
		return len(col)
	}
	return max(len(col)-start, 0)
}

// Through returns the panel restricted to rows dated at or before asOf.
func (p PricePanel) Through(asOf time.Time) PricePanel {
	n := sort.Search(len(p.Dates), func(i int) bool { return p.Dates[i].After(asOf) })
	if n == len(p.Dates) {
		return p
	}
	out := PricePanel{
		Dates:   p.Dates[:n],
		Tickers: p.Tickers,
		Columns: make(map[string][]float64, len(p.Columns)),
		Starts:  p.Starts,
	}
	for k, col := range p.Columns {
		out.Columns[k] = col[:n]
	}
	return out
}

// LastDate is the date of the final row, or the zero time for an empty panel.
func (p PricePanel) LastDate() time.Time {
	if len(p.Dates) == 0 {
		return time.Time{}
	}
	return p.Dates[len(p.Dates)-1]
}
