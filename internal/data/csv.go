package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"haa-backtest/internal/calendar"
	"haa-backtest/internal/model"
)

// LoadStatus tells the caller how a series load ended.
// Keep these values stable; they appear in reports and JSON.
type LoadStatus string

const (
	LoadOK          LoadStatus = "OK"
	LoadUnavailable LoadStatus = "UNAVAILABLE"
	LoadIncomplete  LoadStatus = "INCOMPLETE"
)

// LoadResult is the outcome of loading one ticker over a window. Series is
// only meaningful when Status is LoadOK; Err explains the other statuses and
// wraps model.ErrDataUnavailable or model.ErrDataIncomplete.
type LoadResult struct {
	Ticker string
	Status LoadStatus
	Series model.PriceSeries
	Err    error
}

func (r LoadResult) OK() bool { return r.Status == LoadOK }

func unavailable(ticker string, err error) LoadResult {
	return LoadResult{Ticker: ticker, Status: LoadUnavailable, Err: fmt.Errorf("%s: %w: %v", ticker, model.ErrDataUnavailable, err)}
}

func incomplete(ticker string, err error) LoadResult {
	return LoadResult{Ticker: ticker, Status: LoadIncomplete, Err: fmt.Errorf("%s: %w: %v", ticker, model.ErrDataIncomplete, err)}
}

// priceDecimals is the precision prices are rounded to on load.
const priceDecimals = 12

var dateFormats = []string{
	calendar.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
}

// priceFile is a parsed price CSV: dates ascending, adjusted close kept as
// raw text so missing values are only judged inside a requested window.
type priceFile struct {
	Dates []time.Time
	Raw   []string
}

// CSVStore reads one "<dir>/<TICKER>.csv" file per instrument. Each file
// needs a Date column and an adjusted close column ("Adj Close").
type CSVStore struct {
	Dir    string
	cache  *FileCache
	logger zerolog.Logger
}

// NewCSVStore creates a store rooted at dir. cache may be nil.
func NewCSVStore(dir string, cache *FileCache, logger zerolog.Logger) *CSVStore {
	return &CSVStore{Dir: dir, cache: cache, logger: logger}
}

// Path returns the file that backs ticker.
func (s *CSVStore) Path(ticker string) string {
	return filepath.Join(s.Dir, ticker+".csv")
}

// Load returns ticker's adjusted close over [start, end], both inclusive.
func (s *CSVStore) Load(ctx context.Context, ticker string, start, end time.Time) LoadResult {
	if err := ctx.Err(); err != nil {
		return unavailable(ticker, err)
	}

	path := s.Path(ticker)
	pf, err := s.readFile(path)
	if err != nil {
		s.logger.Error().Err(err).Str("ticker", ticker).Str("path", path).Msg("price file unreadable")
		return unavailable(ticker, err)
	}

	start, end = calendar.Day(start), calendar.Day(end)
	lo := sort.Search(len(pf.Dates), func(i int) bool { return !pf.Dates[i].Before(start) })
	hi := sort.Search(len(pf.Dates), func(i int) bool { return pf.Dates[i].After(end) })
	if lo >= hi {
		return unavailable(ticker, fmt.Errorf("no rows between %s and %s",
			start.Format(calendar.DateLayout), end.Format(calendar.DateLayout)))
	}

	series := model.PriceSeries{
		Ticker: ticker,
		Dates:  make([]time.Time, 0, hi-lo),
		Prices: make([]float64, 0, hi-lo),
	}
	for i := lo; i < hi; i++ {
		v, ok := parsePrice(pf.Raw[i])
		if !ok {
			return incomplete(ticker, fmt.Errorf("missing adjusted close on %s", pf.Dates[i].Format(calendar.DateLayout)))
		}
		series.Dates = append(series.Dates, pf.Dates[i])
		series.Prices = append(series.Prices, roundTo(v, priceDecimals))
	}
	return LoadResult{Ticker: ticker, Status: LoadOK, Series: series}
}

func (s *CSVStore) readFile(path string) (*priceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s does not exist", path)
		}
		return nil, err
	}
	if pf, ok := s.cache.Get(path, info.ModTime(), info.Size()); ok {
		return pf, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := parsePriceFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.cache.Set(path, info.ModTime(), info.Size(), pf)
	return pf, nil
}

func parsePriceFile(r io.Reader) (*priceFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no data")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	dateCol, priceCol := -1, -1
	for i, h := range header {
		switch normalizeColumn(h) {
		case "date":
			dateCol = i
		case "adjclose":
			priceCol = i
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("missing Date column")
	}
	if priceCol < 0 {
		return nil, fmt.Errorf("missing Adj Close column")
	}

	type row struct {
		date time.Time
		raw  string
	}
	var rows []row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if dateCol >= len(rec) {
			return nil, fmt.Errorf("short row %v", rec)
		}
		d, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, err
		}
		raw := ""
		if priceCol < len(rec) {
			raw = rec[priceCol]
		}
		rows = append(rows, row{date: d, raw: raw})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })
	pf := &priceFile{
		Dates: make([]time.Time, len(rows)),
		Raw:   make([]string, len(rows)),
	}
	for i, r := range rows {
		pf.Dates[i] = r.date
		pf.Raw[i] = r.raw
	}
	return pf, nil
}

// normalizeColumn folds "Adj Close", "adj_close" and "AdjClose" to "adjclose".
func normalizeColumn(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return calendar.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parsePrice treats blanks and null markers as missing.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "nan", "na", "n/a", "none":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
