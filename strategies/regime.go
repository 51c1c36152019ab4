package strategies

import (
	"stratsweep/indicators"
	"stratsweep/market"
)

// RegimeMode controls how regimes map onto allowed entry directions.
type RegimeMode int8

const (
	// TrendFollowing allows longs only in TRENDING_UP and shorts only in
	// TRENDING_DOWN.
	TrendFollowing RegimeMode = iota

	// MeanReversion additionally allows entries in RANGING markets: a
	// reversion trade only needs the market not to trend hard against it.
	MeanReversion
)

// ADXRegimeFilter classifies each bar as trending-up, trending-down, or
// ranging from Wilder's ADX/DMI and gates entries accordingly.
type ADXRegimeFilter struct {
	Window    int
	Threshold float64
	Mode      RegimeMode
}

func NewADXRegimeFilter(window int, threshold float64, mode RegimeMode) *ADXRegimeFilter {
	return &ADXRegimeFilter{Window: window, Threshold: threshold, Mode: mode}
}

// MaxLookback covers both Wilder smoothing stages: the smoothed TR/DM
// seed plus the smoothed DX seed.
func (f *ADXRegimeFilter) MaxLookback() int { return 2 * f.Window }

// Classify returns the per-bar regime. ADX > threshold with +DI dominant
// is TRENDING_UP, with -DI dominant TRENDING_DOWN, anything else RANGING.
func (f *ADXRegimeFilter) Classify(bars []market.Bar) ([]Regime, error) {
	if f.Window <= 0 {
		return nil, market.Configf("adx window must be positive, got %d", f.Window)
	}
	d := indicators.ADXDMI(bars, f.Window)

	regimes := make([]Regime, len(bars))
	for i := range bars {
		switch {
		case d.ADX[i] > f.Threshold && d.PlusDI[i] > d.MinusDI[i]:
			regimes[i] = TrendingUp
		case d.ADX[i] > f.Threshold && d.MinusDI[i] > d.PlusDI[i]:
			regimes[i] = TrendingDown
		default:
			regimes[i] = Ranging
		}
	}
	return regimes, nil
}

func (f *ADXRegimeFilter) EntryValid(bars []market.Bar, dir Action) ([]bool, error) {
	regimes, err := f.Classify(bars)
	if err != nil {
		return nil, err
	}
	ok := make([]bool, len(bars))
	for i, r := range regimes {
		switch dir {
		case Buy:
			ok[i] = r == TrendingUp || (f.Mode == MeanReversion && r == Ranging)
		case Sell:
			ok[i] = r == TrendingDown || (f.Mode == MeanReversion && r == Ranging)
		}
	}
	return ok, nil
}
