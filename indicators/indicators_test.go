package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stratsweep/market"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	out := SMA(values, 3)

	assert.Zero(t, out[0])
	assert.Zero(t, out[1])
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 5.0, out[5], 1e-9)
}

func TestSMAShortInput(t *testing.T) {
	out := SMA([]float64{1, 2}, 5)
	assert.Equal(t, []float64{0, 0}, out)
}

func TestEMASeededFromFirstValue(t *testing.T) {
	values := []float64{10, 10, 10, 10}
	out := EMA(values, 3)
	for i := range out {
		assert.InDelta(t, 10.0, out[i], 1e-9)
	}
}

func TestEMAConverges(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 50
	}
	values[0] = 0
	out := EMA(values, 5)
	assert.InDelta(t, 50.0, out[99], 1e-6)
	assert.Less(t, out[1], 50.0)
}

func TestRollingStd(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	out := RollingStd(values, 8)
	// Sample stdev of the whole window.
	assert.InDelta(t, 2.13809, out[7], 1e-4)
	assert.Zero(t, out[6])
}

func TestTrueRange(t *testing.T) {
	current := market.Bar{High: 110, Low: 100, Close: 105}
	previous := market.Bar{Close: 95}

	// high-prevClose = 15 beats high-low = 10.
	assert.InDelta(t, 15.0, TrueRange(current, previous), 1e-9)
}

func TestATRWilderSeedAndSmoothing(t *testing.T) {
	bars := []market.Bar{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}
	out := ATR(bars, 3)

	assert.Zero(t, out[0])
	assert.Zero(t, out[2])
	// Seed at index 3 = mean of first three TRs (2, 2, 2).
	assert.InDelta(t, 2.0, out[3], 1e-9)
	// Next: (2*2 + 2) / 3 = 2.
	assert.InDelta(t, 2.0, out[4], 1e-9)
}

func TestATRShortInput(t *testing.T) {
	bars := []market.Bar{{High: 10, Low: 8, Close: 9}}
	out := ATR(bars, 3)
	assert.Equal(t, []float64{0}, out)
}

func TestMACDHistogramSign(t *testing.T) {
	// Steadily rising closes: fast EMA above slow EMA, histogram > 0 once
	// warmed up.
	values := make([]float64, 80)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	out := MACD(values, 12, 26, 9)

	assert.Len(t, out.Histogram, 80)
	assert.Greater(t, out.Line[79], 0.0)
	assert.Greater(t, out.Histogram[79], 0.0)
}

func TestBollingerBandsEnvelope(t *testing.T) {
	values := []float64{10, 11, 12, 11, 10, 11, 12, 13, 12, 11}
	b := Bollinger(values, 5, 2.0)

	for i := 4; i < len(values); i++ {
		assert.Greater(t, b.Upper[i], b.Middle[i])
		assert.Less(t, b.Lower[i], b.Middle[i])
	}
	// Middle band is the SMA.
	assert.InDelta(t, 10.8, b.Middle[4], 1e-9)
}

func TestADXDMIWarmup(t *testing.T) {
	bars := trendingBars(40, 1.0)
	d := ADXDMI(bars, 5)

	// Nothing before 2*period is trustworthy; ADX stays zero there.
	for i := 0; i < 10; i++ {
		assert.Zero(t, d.ADX[i], "index %d", i)
	}
	assert.Greater(t, d.ADX[20], 0.0)
}

func TestADXDMIUptrendDominance(t *testing.T) {
	bars := trendingBars(60, 1.0)
	d := ADXDMI(bars, 7)

	last := len(bars) - 1
	assert.Greater(t, d.PlusDI[last], d.MinusDI[last])
	// A clean monotone trend drives ADX high.
	assert.Greater(t, d.ADX[last], 25.0)
}

func TestADXDMIFlatSeriesNoNaN(t *testing.T) {
	bars := make([]market.Bar, 40)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = market.Bar{Time: base.Add(time.Duration(i) * time.Hour), Open: 100, High: 100, Low: 100, Close: 100}
	}
	d := ADXDMI(bars, 5)
	for i := range bars {
		assert.False(t, math.IsNaN(d.ADX[i]))
		assert.Zero(t, d.ADX[i])
		assert.Zero(t, d.PlusDI[i])
		assert.Zero(t, d.MinusDI[i])
	}
}

func TestADXDMIShortInput(t *testing.T) {
	bars := trendingBars(8, 1.0)
	d := ADXDMI(bars, 5)
	for i := range bars {
		assert.Zero(t, d.ADX[i])
	}
}

func trendingBars(n int, step float64) []market.Bar {
	bars := make([]market.Bar, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := range bars {
		bars[i] = market.Bar{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Open:  price,
			High:  price + step,
			Low:   price - step/2,
			Close: price + step/2,
		}
		price += step
	}
	return bars
}
