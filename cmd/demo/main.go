package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"haa-backtest/internal/backtest"
	"haa-backtest/internal/calendar"
	"haa-backtest/internal/config"
	"haa-backtest/internal/data"
)

// Demo:
// - Generate random-walk price files for the default universe
// - Run a 12-step backtest over them
// - Print the report, to show how the packages fit together without real data
func main() {
	dir := flag.String("dir", "", "Where to write the generated CSVs (default: a temp dir)")
	end := flag.String("end", "2024-01-31", "First evaluation date (YYYY-MM-DD)")
	years := flag.Int("years", 3, "Years of generated history")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	endDate, err := calendar.ParseDate(*end)
	if err != nil {
		panic(err)
	}
	if *dir == "" {
		tmp, err := os.MkdirTemp("", "haa-demo-")
		if err != nil {
			panic(err)
		}
		*dir = tmp
	}

	cfg := config.Default()
	cfg.DataDir = *dir
	startDate := endDate.AddDate(-*years, 0, 0)

	rng := rand.New(rand.NewSource(*seed))
	for _, ticker := range cfg.Tickers {
		if err := writeRandomWalk(filepath.Join(*dir, ticker+".csv"), startDate, endDate, rng); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Wrote %d price files to %s\n", len(cfg.Tickers), *dir)

	store := data.NewCSVStore(cfg.DataDir, nil, zerolog.Nop())
	engine, err := backtest.FromConfig(cfg, store)
	if err != nil {
		panic(err)
	}
	res, err := engine.Run(context.Background(), backtest.Request{Start: startDate, End: endDate, Steps: cfg.Steps})
	if err != nil {
		panic(err)
	}
	if err := backtest.WriteReport(os.Stdout, res); err != nil {
		panic(err)
	}
}

// writeRandomWalk writes weekday prices following a geometric random walk
// with a per-file drift.
func writeRandomWalk(path string, start, end time.Time, rng *rand.Rand) error {
	drift := (rng.Float64() - 0.45) * 0.001
	price := 50 + rng.Float64()*100

	var b strings.Builder
	b.WriteString("Date,Adj Close\n")
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price *= math.Exp(drift + rng.NormFloat64()*0.01)
		fmt.Fprintf(&b, "%s,%.6f\n", d.Format(calendar.DateLayout), price)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
