package indicators

import (
	"math"

	"stratsweep/market"
)

// TrueRange computes max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATR computes the Average True Range with Wilder smoothing: the first
// value at index `period` is the simple average of the first `period`
// true ranges, every later value is (prev*(n-1)+tr)/n. out[i] is valid
// for i >= period.
func ATR(bars []market.Bar, period int) []float64 {
	out := make([]float64, len(bars))
	if period <= 0 || len(bars) < period+1 {
		return out
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += TrueRange(bars[i], bars[i-1])
	}
	atr := sum / float64(period)
	out[period] = atr

	for i := period + 1; i < len(bars); i++ {
		tr := TrueRange(bars[i], bars[i-1])
		atr = (atr*float64(period-1) + tr) / float64(period)
		out[i] = atr
	}
	return out
}
