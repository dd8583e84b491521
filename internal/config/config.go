package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"haa-backtest/internal/strategy"
)

// Default instrument universe: TIP is the signal, the rest split into the
// offensive and defensive baskets.
var (
	DefaultTickers   = []string{"TIP", "IEF", "SPY", "QQQ", "VEA", "VWO", "TLT", "PDBC", "VNQ", "LQD", "GLD", "BIL"}
	DefaultOffensive = []string{"SPY", "QQQ", "TLT", "VEA", "VWO", "PDBC", "GLD", "VNQ"}
	DefaultDefensive = []string{"BIL", "LQD", "IEF"}
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// DataDir holds one <TICKER>.csv per instrument. Relative paths are
	// resolved against the config file's directory when that exists.
	DataDir string `yaml:"data_dir" default:"data" validate:"required"`

	// Tickers is the instrument list in load order. This order is also the
	// tie-break order when scores are equal.
	Tickers   []string `yaml:"tickers" validate:"required,min=1,unique,dive,required"`
	Signal    string   `yaml:"signal" default:"TIP" validate:"required"`
	Offensive []string `yaml:"offensive" validate:"required,min=1,unique,dive,required"`
	Defensive []string `yaml:"defensive" validate:"unique,dive,required"`
	TopN      int      `yaml:"top_n" default:"4" validate:"gte=1"`

	Steps          int   `yaml:"steps" default:"12" validate:"gte=1,lte=600"`
	LookbackMonths []int `yaml:"lookback_months" validate:"required,min=1,dive,gte=1,lte=120"`
	TrailingDays   int   `yaml:"trailing_days" default:"252" validate:"gte=1"`

	Workers  int           `yaml:"workers" default:"1" validate:"gte=1,lte=64"`
	FailFast bool          `yaml:"fail_fast"`
	CacheTTL time.Duration `yaml:"cache_ttl" default:"1h"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stderr" validate:"required"`
}

type ServerConfig struct {
	Port           int      `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SetDefaults fills list fields, which are awkward to express as struct tags.
// Called by defaults.Set after the tag defaults.
func (c *Config) SetDefaults() {
	if len(c.Tickers) == 0 {
		c.Tickers = append([]string(nil), DefaultTickers...)
	}
	if len(c.Offensive) == 0 {
		c.Offensive = append([]string(nil), DefaultOffensive...)
	}
	if c.Defensive == nil {
		c.Defensive = append([]string(nil), DefaultDefensive...)
	}
	if len(c.LookbackMonths) == 0 {
		c.LookbackMonths = append([]int(nil), strategy.DefaultLookbackMonths...)
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		// tags are static; this only fails on a programming error
		panic(err)
	}
	return c
}

// Load reads, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and defaults the config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if !filepath.IsAbs(c.DataDir) {
		// Prefer the config file's directory, but fall back to the provided
		// path (relative to cwd) if that doesn't exist.
		cand := filepath.Join(filepath.Dir(path), c.DataDir)
		if _, err := os.Stat(cand); err == nil {
			c.DataDir = cand
		}
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	known := make(map[string]bool, len(c.Tickers))
	for _, t := range c.Tickers {
		known[t] = true
	}
	if !known[c.Signal] {
		return fmt.Errorf("signal %s is not in tickers", c.Signal)
	}
	offensive := map[string]bool{}
	for _, t := range c.Offensive {
		if !known[t] {
			return fmt.Errorf("offensive ticker %s is not in tickers", t)
		}
		offensive[t] = true
	}
	for _, t := range c.Defensive {
		if !known[t] {
			return fmt.Errorf("defensive ticker %s is not in tickers", t)
		}
		if offensive[t] {
			return fmt.Errorf("ticker %s is both offensive and defensive", t)
		}
	}
	return nil
}

// RegimeParams converts the allocation settings for the strategy package.
func (c *Config) RegimeParams() strategy.RegimeParams {
	return strategy.RegimeParams{
		Signal:    c.Signal,
		Offensive: append([]string(nil), c.Offensive...),
		Defensive: append([]string(nil), c.Defensive...),
		TopN:      c.TopN,
	}
}

// Role names the basket ticker belongs to: "signal", "offensive",
// "defensive" or "other".
func (c *Config) Role(ticker string) string {
	switch {
	case ticker == c.Signal:
		return "signal"
	case slices.Contains(c.Offensive, ticker):
		return "offensive"
	case slices.Contains(c.Defensive, ticker):
		return "defensive"
	default:
		return "other"
	}
}
