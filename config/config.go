// Package config loads the file-based configuration for a single
// backtest run. Files may be YAML or JSON; the struct is constructed
// once, validated, and passed by value into the components that need it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stratsweep/market"
	"stratsweep/strategies"
)

// Config is the complete backtest configuration.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// DataConfig names the price series and the evaluation window.
type DataConfig struct {
	CSVPath   string `json:"csv_path" yaml:"csv_path"`
	Symbol    string `json:"symbol" yaml:"symbol"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	Start     string `json:"start" yaml:"start"` // 2006-01-02 or RFC3339
	End       string `json:"end" yaml:"end"`
}

// StrategyConfig selects a strategy kind and its parameters. Filter
// fields left zero disable the corresponding filter.
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`

	FastWindow         int     `json:"fast_window,omitempty" yaml:"fast_window,omitempty"`
	SlowWindow         int     `json:"slow_window,omitempty" yaml:"slow_window,omitempty"`
	BBWindow           int     `json:"bb_window,omitempty" yaml:"bb_window,omitempty"`
	BBStdDev           float64 `json:"bb_std_dev,omitempty" yaml:"bb_std_dev,omitempty"`
	ATRWindow          int     `json:"atr_window,omitempty" yaml:"atr_window,omitempty"`
	ATRMultiplier      float64 `json:"atr_multiplier,omitempty" yaml:"atr_multiplier,omitempty"`
	VolatilityLookback int     `json:"volatility_lookback,omitempty" yaml:"volatility_lookback,omitempty"`
	RiskReward         float64 `json:"risk_reward,omitempty" yaml:"risk_reward,omitempty"`
	ADXWindow          int     `json:"adx_window,omitempty" yaml:"adx_window,omitempty"`
	ADXThreshold       float64 `json:"adx_threshold,omitempty" yaml:"adx_threshold,omitempty"`
	MACDFast           int     `json:"macd_fast,omitempty" yaml:"macd_fast,omitempty"`
	MACDSlow           int     `json:"macd_slow,omitempty" yaml:"macd_slow,omitempty"`
	MACDSignal         int     `json:"macd_signal,omitempty" yaml:"macd_signal,omitempty"`
	LongOnly           bool    `json:"long_only,omitempty" yaml:"long_only,omitempty"`
	MaxHoldHours       int     `json:"max_hold_hours,omitempty" yaml:"max_hold_hours,omitempty"`
}

// JournalConfig enables the optional sqlite trade journal.
type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile reads and validates a configuration file. YAML is tried
// first, then JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration before any data is loaded.
func (c *Config) Validate() error {
	if c.Data.CSVPath == "" {
		return market.Configf("data.csv_path is required")
	}
	if c.Data.Symbol == "" {
		return market.Configf("data.symbol is required")
	}
	if _, err := market.TimeframeMinutes(c.Data.Timeframe); err != nil {
		return err
	}
	start, err := ParseTime(c.Data.Start)
	if err != nil {
		return err
	}
	end, err := ParseTime(c.Data.End)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return market.Configf("data.start %s must be before data.end %s", c.Data.Start, c.Data.End)
	}
	if _, err := strategies.ParseKind(c.Strategy.Name); err != nil {
		return err
	}
	if c.Strategy.MaxHoldHours < 0 {
		return market.Configf("strategy.max_hold_hours must not be negative")
	}
	return nil
}

// Kind resolves the configured strategy name.
func (c *Config) Kind() (strategies.Kind, error) {
	return strategies.ParseKind(c.Strategy.Name)
}

// Params maps the strategy section onto the factory's parameter struct.
func (c *Config) Params() strategies.Params {
	s := c.Strategy
	return strategies.Params{
		FastWindow:         s.FastWindow,
		SlowWindow:         s.SlowWindow,
		BBWindow:           s.BBWindow,
		BBStdDev:           s.BBStdDev,
		ATRWindow:          s.ATRWindow,
		ATRMultiplier:      s.ATRMultiplier,
		VolatilityLookback: s.VolatilityLookback,
		RiskReward:         s.RiskReward,
		ADXWindow:          s.ADXWindow,
		ADXThreshold:       s.ADXThreshold,
		MACDFast:           s.MACDFast,
		MACDSlow:           s.MACDSlow,
		MACDSignal:         s.MACDSignal,
		LongOnly:           s.LongOnly,
	}
}

// MaxHold returns the configured max-hold duration, zero when disabled.
func (c *Config) MaxHold() time.Duration {
	return time.Duration(c.Strategy.MaxHoldHours) * time.Hour
}

// Window returns the parsed evaluation window. Call after Validate.
func (c *Config) Window() (start, end time.Time, err error) {
	if start, err = ParseTime(c.Data.Start); err != nil {
		return
	}
	end, err = ParseTime(c.Data.End)
	return
}

// ParseTime accepts a bare date or an RFC3339 timestamp, UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, market.Configf("unrecognized time %q (want YYYY-MM-DD or RFC3339)", s)
}
