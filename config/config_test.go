package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratsweep/market"
	"stratsweep/strategies"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validYAML = `
data:
  csv_path: data/btc_1h.csv
  symbol: BTC/USDT
  timeframe: 1h
  start: 2024-01-01
  end: 2024-06-01
strategy:
  name: volatility_adjusted
  fast_window: 9
  slow_window: 21
  atr_window: 14
  atr_multiplier: 2.0
  adx_window: 14
  adx_threshold: 25
  max_hold_hours: 48
journal:
  db_path: runs.db
`

func TestLoadFromFileYAML(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	kind, err := cfg.Kind()
	require.NoError(t, err)
	assert.Equal(t, strategies.KindVolatilityAdjusted, kind)

	p := cfg.Params()
	assert.Equal(t, 9, p.FastWindow)
	assert.Equal(t, 21, p.SlowWindow)
	assert.Equal(t, 14, p.ADXWindow)
	assert.InDelta(t, 2.0, p.ATRMultiplier, 1e-9)

	assert.Equal(t, 48*time.Hour, cfg.MaxHold())
	assert.Equal(t, "runs.db", cfg.Journal.DBPath)

	start, end, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.True(t, start.Before(end))
}

func TestLoadFromFileJSONFallback(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `{
  "data": {"csv_path": "x.csv", "symbol": "ETH/USDT", "timeframe": "4h",
           "start": "2024-01-01", "end": "2024-02-01"},
  "strategy": {"name": "sma_cross", "fast_window": 5, "slow_window": 20}
}`))
	require.NoError(t, err)
	assert.Equal(t, "ETH/USDT", cfg.Data.Symbol)
}

func TestValidateRejectsBadTimeframe(t *testing.T) {
	bad := `
data:
  csv_path: x.csv
  symbol: BTC/USDT
  timeframe: hourly
  start: 2024-01-01
  end: 2024-06-01
strategy:
  name: sma_cross
`
	_, err := LoadFromFile(writeConfig(t, bad))
	var ce *market.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	bad := `
data:
  csv_path: x.csv
  symbol: BTC/USDT
  timeframe: 1h
  start: 2024-01-01
  end: 2024-06-01
strategy:
  name: martingale
`
	_, err := LoadFromFile(writeConfig(t, bad))
	var ce *market.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	bad := `
data:
  csv_path: x.csv
  symbol: BTC/USDT
  timeframe: 1h
  start: 2024-06-01
  end: 2024-01-01
strategy:
  name: sma_cross
`
	_, err := LoadFromFile(writeConfig(t, bad))
	var ce *market.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("2024-03-05T06:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Hour())

	_, err = ParseTime("yesterday")
	var ce *market.ConfigError
	assert.ErrorAs(t, err, &ce)
}
