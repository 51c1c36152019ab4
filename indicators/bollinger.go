package indicators

// Bands holds Bollinger Bands: an SMA middle band with upper/lower bands
// offset by a multiple of the rolling standard deviation.
type Bands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Bollinger computes bands over the values. out[i] is valid for
// i >= period-1.
func Bollinger(values []float64, period int, stdDev float64) Bands {
	middle := SMA(values, period)
	std := RollingStd(values, period)

	upper := make([]float64, len(values))
	lower := make([]float64, len(values))
	for i := range values {
		upper[i] = middle[i] + stdDev*std[i]
		lower[i] = middle[i] - stdDev*std[i]
	}
	return Bands{Middle: middle, Upper: upper, Lower: lower}
}
