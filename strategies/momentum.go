package strategies

import (
	"stratsweep/indicators"
	"stratsweep/market"
)

// MACDMomentumFilter confirms directional acceleration via the MACD
// histogram: a BUY entry needs histogram > 0, a SELL entry needs
// histogram < 0.
type MACDMomentumFilter struct {
	Fast   int
	Slow   int
	Signal int
}

func NewMACDMomentumFilter(fast, slow, signal int) *MACDMomentumFilter {
	return &MACDMomentumFilter{Fast: fast, Slow: slow, Signal: signal}
}

// MaxLookback is the slow EMA period, the larger of the two MACD inputs.
func (f *MACDMomentumFilter) MaxLookback() int { return f.Slow }

func (f *MACDMomentumFilter) EntryValid(bars []market.Bar, dir Action) ([]bool, error) {
	if f.Fast <= 0 || f.Slow <= 0 || f.Signal <= 0 {
		return nil, market.Configf("macd periods must be positive (fast=%d slow=%d signal=%d)",
			f.Fast, f.Slow, f.Signal)
	}
	if f.Fast >= f.Slow {
		return nil, market.Configf("macd fast period %d must be below slow period %d", f.Fast, f.Slow)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	macd := indicators.MACD(closes, f.Fast, f.Slow, f.Signal)

	ok := make([]bool, len(bars))
	for i := range bars {
		switch dir {
		case Buy:
			ok[i] = macd.Histogram[i] > 0
		case Sell:
			ok[i] = macd.Histogram[i] < 0
		}
	}
	return ok, nil
}
