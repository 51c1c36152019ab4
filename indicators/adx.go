package indicators

import (
	"math"

	"stratsweep/market"
)

// DMI holds the directional movement family computed over a series.
// Slices are aligned 1:1 with the input bars; entries before the warm-up
// of 2*period bars are zero. Division by zero anywhere in the DI/DX math
// resolves to 0, never NaN.
type DMI struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADXDMI implements Wilder's Average Directional Index. The computation
// is inherently a sequential scan with two recursive smoothing stages:
// true range and directional movement are Wilder-smoothed first, then the
// resulting directional index is smoothed again into ADX. Neither stage
// can be expressed as a windowed aggregate, so the whole thing is one
// explicit running-accumulator loop.
//
// Values are trustworthy from index 2*period onward.
func ADXDMI(bars []market.Bar, period int) DMI {
	n := len(bars)
	d := DMI{
		ADX:     make([]float64, n),
		PlusDI:  make([]float64, n),
		MinusDI: make([]float64, n),
	}
	if period <= 0 || n < 2*period+1 {
		return d
	}

	p := float64(period)

	var trS, pdmS, mdmS float64 // Wilder-smoothed TR / +DM / -DM
	var adx, dxSum float64
	dxCount := 0
	adxSeeded := false

	for i := 1; i < n; i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low

		var pdm, mdm float64
		if upMove > downMove && upMove > 0 {
			pdm = upMove
		}
		if downMove > upMove && downMove > 0 {
			mdm = downMove
		}
		tr := TrueRange(bars[i], bars[i-1])

		// Stage 1 warm-up: accumulate the first `period` samples, then
		// convert the sums to simple averages to seed Wilder smoothing.
		if i <= period {
			trS += tr
			pdmS += pdm
			mdmS += mdm
			if i < period {
				continue
			}
			trS /= p
			pdmS /= p
			mdmS /= p
		} else {
			trS = (trS*(p-1) + tr) / p
			pdmS = (pdmS*(p-1) + pdm) / p
			mdmS = (mdmS*(p-1) + mdm) / p
		}

		var pdi, mdi float64
		if trS > 0 {
			pdi = 100 * pdmS / trS
			mdi = 100 * mdmS / trS
		}
		d.PlusDI[i] = pdi
		d.MinusDI[i] = mdi

		var dx float64
		if den := pdi + mdi; den > 0 {
			dx = 100 * math.Abs(pdi-mdi) / den
		}

		// Stage 2 warm-up: seed ADX with the average of the first
		// `period` DX values, then Wilder-smooth.
		if !adxSeeded {
			dxSum += dx
			dxCount++
			if dxCount < period {
				continue
			}
			adx = dxSum / p
			adxSeeded = true
		} else {
			adx = (adx*(p-1) + dx) / p
		}
		d.ADX[i] = adx
	}
	return d
}
