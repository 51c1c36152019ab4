package market

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyBars(n int) []Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	for i := range bars {
		price := 100.0 + float64(i)
		bars[i] = Bar{Time: base.Add(time.Duration(i) * time.Hour),
			Open: price, High: price + 1, Low: price - 1, Close: price + 0.5, Volume: 10}
	}
	return bars
}

func TestTimeframeMinutes(t *testing.T) {
	cases := []struct {
		tf   string
		want int
	}{
		{"1m", 1},
		{"15m", 15},
		{"1h", 60},
		{"4h", 240},
		{"1d", 1440},
		{"1w", 10080},
	}
	for _, tc := range cases {
		got, err := TimeframeMinutes(tc.tf)
		assert.NoError(t, err, tc.tf)
		assert.Equal(t, tc.want, got, tc.tf)
	}
}

func TestTimeframeMinutesUnknown(t *testing.T) {
	for _, tf := range []string{"", "h", "1x", "0h", "-1h", "hourly"} {
		_, err := TimeframeMinutes(tf)
		var ce *ConfigError
		assert.ErrorAs(t, err, &ce, tf)
	}
}

func TestPeriodsPerYear(t *testing.T) {
	cases := map[string]float64{"1h": 8760, "4h": 2190, "1d": 365}
	for tf, want := range cases {
		got, err := PeriodsPerYear(tf)
		assert.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, tf)
	}
}

func TestSeriesValidate(t *testing.T) {
	s := Series{Bars: hourlyBars(5)}
	assert.NoError(t, s.Validate())

	bad := Series{Bars: hourlyBars(5)}
	bad.Bars[3].Time = bad.Bars[1].Time
	var de *DataError
	assert.ErrorAs(t, bad.Validate(), &de)

	malformed := Series{Bars: hourlyBars(3)}
	malformed.Bars[1].Close = 0
	assert.ErrorAs(t, malformed.Validate(), &de)
}

func TestSeriesWindow(t *testing.T) {
	s := Series{Bars: hourlyBars(10)}
	start := s.Bars[2].Time
	end := s.Bars[6].Time

	w := s.Window(start, end)
	require.Equal(t, 5, w.Len())
	assert.Equal(t, start, w.Bars[0].Time)
	assert.Equal(t, end, w.Bars[4].Time)
}

func TestSeriesDrop(t *testing.T) {
	s := Series{Bars: hourlyBars(5)}
	assert.Equal(t, 2, s.Drop(3).Len())
	assert.Equal(t, 0, s.Drop(10).Len())
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVSourceSemicolon(t *testing.T) {
	path := writeTempCSV(t, `time;open;high;low;close;volume
1704067200;100;101;99;100.5;12
1704070800;100.5;102;100;101.5;15
1704074400;101.5;103;101;102.5;9
`)
	src := NewCSVSource(path)
	s, err := src.GetSeries(context.Background(), "BTC/USDT", "1h",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, "BTC/USDT", s.Symbol)
	assert.InDelta(t, 100.5, s.Bars[0].Close, 1e-9)
	assert.InDelta(t, 12.0, s.Bars[0].Volume, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.Bars[0].Time)
}

func TestCSVSourceCommaRFC3339(t *testing.T) {
	path := writeTempCSV(t, `2024-01-01T00:00:00Z,100,101,99,100.5,1
2024-01-01T01:00:00Z,100.5,102,100,101.5,1
`)
	src := NewCSVSource(path)
	s, err := src.GetSeries(context.Background(), "ETH/USDT", "1h",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestCSVSourceDuplicateKeepsFirst(t *testing.T) {
	path := writeTempCSV(t, `1704067200;100;101;99;100.5;1
1704067200;999;999;999;999;1
1704070800;100.5;102;100;101.5;1
`)
	src := NewCSVSource(path)
	s, err := src.GetSeries(context.Background(), "BTC/USDT", "1h",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.InDelta(t, 100.5, s.Bars[0].Close, 1e-9)
}

func TestCSVSourceOutOfOrder(t *testing.T) {
	path := writeTempCSV(t, `1704070800;100;101;99;100.5;1
1704067200;100.5;102;100;101.5;1
`)
	src := NewCSVSource(path)
	_, err := src.GetSeries(context.Background(), "BTC/USDT", "1h",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	var de *DataError
	assert.ErrorAs(t, err, &de)
}

func TestCSVSourceEmptyWindow(t *testing.T) {
	path := writeTempCSV(t, `1704067200;100;101;99;100.5;1
`)
	src := NewCSVSource(path)
	_, err := src.GetSeries(context.Background(), "BTC/USDT", "1h",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	var de *DataError
	assert.ErrorAs(t, err, &de)
}

// countingSource counts how often the underlying source is actually hit.
type countingSource struct {
	series Series
	calls  int
}

func (c *countingSource) GetSeries(_ context.Context, symbol, timeframe string, start, end time.Time) (Series, error) {
	c.calls++
	s := c.series
	s.Symbol, s.Timeframe = symbol, timeframe
	return s.Window(start, end), nil
}

func TestCachedSourceLoadsOnce(t *testing.T) {
	inner := &countingSource{series: Series{Bars: hourlyBars(24)}}
	cache := NewCachedSource(inner)

	start := inner.series.Bars[0].Time
	end := inner.series.Bars[23].Time

	first, err := cache.GetSeries(context.Background(), "BTC/USDT", "1h", start, end)
	require.NoError(t, err)
	assert.Equal(t, 24, first.Len())

	for i := 0; i < 5; i++ {
		again, err := cache.GetSeries(context.Background(), "BTC/USDT", "1h", start, end.Add(-12*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 12, again.Len())
	}

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 6, cache.Loads())
}

func TestErrorTaxonomy(t *testing.T) {
	cfg := Configf("bad split")
	data := Dataf("short series")

	var ce *ConfigError
	var de *DataError
	assert.True(t, errors.As(cfg, &ce))
	assert.False(t, errors.As(cfg, &de))
	assert.True(t, errors.As(data, &de))
	assert.Equal(t, "config: bad split", cfg.Error())
	assert.Equal(t, "data: short series", data.Error())
}
