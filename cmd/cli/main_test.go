package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	slopes := map[string]float64{"TIP": 0.1, "SPY": 1.0, "QQQ": 0.5, "IEF": 0.05, "BIL": 0.01}
	for ticker, slope := range slopes {
		var b strings.Builder
		b.WriteString("Date,Open,Adj Close\n")
		i := 0
		for d := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC); !d.After(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			fmt.Fprintf(&b, "%s,1,%.4f\n", d.Format("2006-01-02"), 100+slope*float64(i))
			i++
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, ticker+".csv"), []byte(b.String()), 0o644))
	}

	cfg := fmt.Sprintf(`data_dir: %s
tickers: [TIP, SPY, QQQ, IEF, BIL]
offensive: [SPY, QQQ]
defensive: [IEF, BIL]
top_n: 1
log:
  level: error
`, dir)
	path := filepath.Join(dir, "haa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBacktestCommandReport(t *testing.T) {
	cfg := writeFixture(t)
	csvPath := filepath.Join(t.TempDir(), "out", "ledger.csv")

	out, err := run(t, "backtest", "--config", cfg, "--start", "2022-01-03", "--end", "2024-01-31", "--steps", "2", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2024-02 holdings (as of 2024-01-31):")
	assert.Contains(t, out, "Recommended: SPY")
	assert.NotContains(t, out, "Recommended: QQQ")
	assert.FileExists(t, csvPath)
}

func TestBacktestCommandJSON(t *testing.T) {
	cfg := writeFixture(t)

	out, err := run(t, "backtest", "--config", cfg, "--start", "2022-01-03", "--end", "2024-01-31", "--steps", "3", "--workers", "2", "--json")
	require.NoError(t, err)

	var res struct {
		Steps []struct {
			AsOf           time.Time `json:"as_of"`
			Regime         string    `json:"regime"`
			Recommendation struct {
				Tickers []string `json:"tickers"`
			} `json:"recommendation"`
		} `json:"steps"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Steps, 3)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, "RISK_ON", res.Steps[2].Regime)
	assert.Equal(t, []string{"SPY"}, res.Steps[0].Recommendation.Tickers)
}

func TestBacktestCommandRequiresDatesWithoutTTY(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	cfg := writeFixture(t)
	_, err := run(t, "backtest", "--config", cfg)
	require.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	cfg := writeFixture(t)

	out, err := run(t, "score", "--config", cfg, "--start", "2022-01-03", "--as-of", "2023-06-30")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-07 holdings (as of 2023-06-30):")
	assert.Contains(t, out, "Offensive assets:")

	_, err = run(t, "score", "--config", cfg, "--start", "2023-06-01", "--as-of", "2024-01-31")
	assert.ErrorContains(t, err, "insufficient price history")
}

func TestUniverseCommand(t *testing.T) {
	cfg := writeFixture(t)

	out, err := run(t, "universe", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "TIP    signal")
	assert.Contains(t, out, "2022-01-03")
	assert.NotContains(t, out, "unconfigured files")

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfg), "GLD.csv"), []byte("Date,Adj Close\n"), 0o644))
	out, err = run(t, "universe", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "unconfigured files: GLD")
}

func TestUniverseCommandLogsUnreadableDataDir(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "haa.log")
	cfg := filepath.Join(dir, "haa.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(`data_dir: %s
log:
  level: warn
  format: json
  output: %s
`, filepath.Join(dir, "missing"), logPath)), 0o644))

	out, err := run(t, "universe", "--config", cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "unconfigured files")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "could not list data dir")
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("disk full") }

func TestTeardownReportsCloseError(t *testing.T) {
	assert.NoError(t, (&app{}).teardown())
	err := (&app{closer: failingCloser{}}).teardown()
	assert.ErrorContains(t, err, "disk full")
}

func TestSetupRejectsBadWorkersFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("workers", "", "")
	require.NoError(t, cmd.Flags().Set("workers", "many"))

	a := &app{}
	assert.Error(t, a.setup(cmd))
	assert.Nil(t, a.cfg)
}

func TestInvalidLogLevel(t *testing.T) {
	cfg := writeFixture(t)
	_, err := run(t, "universe", "--config", cfg, "--log-level", "loud")
	assert.Error(t, err)
}

func TestPromptDates(t *testing.T) {
	var start, end string
	var out bytes.Buffer
	err := promptDates(strings.NewReader("2020-01-01\n 2024-01-31 \n"), &out, &start, &end)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", start)
	assert.Equal(t, "2024-01-31", end)
	assert.Contains(t, out.String(), "Start date (YYYY-MM-DD): ")

	start, end = "2020-01-01", ""
	require.NoError(t, promptDates(strings.NewReader("2024-01-31\n"), &out, &start, &end))
	assert.Equal(t, "2024-01-31", end)

	start, end = "", ""
	assert.Error(t, promptDates(strings.NewReader("yesterday\n"), &out, &start, &end))
	assert.Error(t, promptDates(strings.NewReader(""), &out, &start, &end))
}
