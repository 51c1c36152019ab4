// Package indicators provides technical analysis primitives computed over
// full price series. Every function returns a slice aligned 1:1 with its
// input; entries before the indicator's warm-up are zero and must be
// excluded by the caller through explicit slicing, never consumed.
package indicators

import "math"

// SMA computes the simple moving average. out[i] is valid for
// i >= period-1.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average with smoothing
// 2/(period+1), seeded from the first value. Values stabilize after
// roughly one period; callers treat period-1 as the warm-up bound.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = (values[i]-ema)*alpha + ema
		out[i] = ema
	}
	return out
}

// RollingStd computes the rolling sample standard deviation (ddof=1).
// out[i] is valid for i >= period-1.
func RollingStd(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 1 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)
		ss := 0.0
		for _, v := range window {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out
}
