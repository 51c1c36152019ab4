package strategies

import (
	"fmt"
	"math"

	"stratsweep/indicators"
	"stratsweep/market"
)

// VolatilityAdjusted trades fast/slow EMA crossovers with an ATR
// volatility gate on longs and ATR-derived stop levels on every entry.
// A BUY needs the price to have moved at least one ATR over the lookback
// window, filtering out low-volatility whipsaws.
type VolatilityAdjusted struct {
	gates
	FastWindow         int
	SlowWindow         int
	ATRWindow          int
	ATRMultiplier      float64
	VolatilityLookback int

	// RiskReward, when positive, attaches a take-profit at that multiple
	// of the stop distance. Zero disables take-profit.
	RiskReward float64
}

func (s *VolatilityAdjusted) Name() string {
	return fmt.Sprintf("volatility_adjusted(%d,%d,atr=%d)", s.FastWindow, s.SlowWindow, s.ATRWindow)
}

func (s *VolatilityAdjusted) MaxLookback() int {
	lb := s.SlowWindow
	if s.FastWindow > lb {
		lb = s.FastWindow
	}
	// ATR needs period+1 bars since true range consumes the prior close.
	if a := s.ATRWindow + 1; a > lb {
		lb = a
	}
	if s.VolatilityLookback > lb {
		lb = s.VolatilityLookback
	}
	if f := s.maxFilterLookback(); f > lb {
		lb = f
	}
	return lb
}

func (s *VolatilityAdjusted) Indicators(series market.Series) (Frame, error) {
	closes := series.Closes()
	return Frame{
		"ema_fast": indicators.EMA(closes, s.FastWindow),
		"ema_slow": indicators.EMA(closes, s.SlowWindow),
		"atr":      indicators.ATR(series.Bars, s.ATRWindow),
	}, nil
}

func (s *VolatilityAdjusted) Signals(series market.Series, frame Frame) ([]Signal, error) {
	fast := frame.Col("ema_fast")
	slow := frame.Col("ema_slow")
	atr := frame.Col("atr")
	if len(fast) != series.Len() || len(slow) != series.Len() || len(atr) != series.Len() {
		return nil, market.Dataf("indicator frame misaligned with series")
	}

	buyOK := s.entryAllowed(series.Bars, Buy)
	sellOK := s.entryAllowed(series.Bars, Sell)

	warm := s.SlowWindow
	if v := s.VolatilityLookback; v > warm {
		warm = v
	}
	if a := s.ATRWindow + 1; a > warm {
		warm = a
	}

	signals := make([]Signal, series.Len())
	for i := warm; i < series.Len(); i++ {
		golden := fast[i-1] <= slow[i-1] && fast[i] > slow[i]
		death := fast[i-1] >= slow[i-1] && fast[i] < slow[i]

		close := series.Bars[i].Close
		stopDist := atr[i] * s.ATRMultiplier

		// The raw trigger is the bare cross: the volatility gate and
		// entry filters only veto opening, never closing.
		switch {
		case golden:
			signals[i].Raw = Buy
			if !buyOK[i] {
				continue
			}
			// Volatility gate: the move over the lookback must be worth
			// at least one ATR, otherwise the cross is noise.
			move := math.Abs(close - series.Bars[i-s.VolatilityLookback].Close)
			if move < atr[i] {
				continue
			}
			signals[i].Action = Buy
			signals[i].StopLoss = close - stopDist
			if s.RiskReward > 0 {
				signals[i].TakeProfit = close + stopDist*s.RiskReward
			}

		case death:
			signals[i].Raw = Sell
			if !sellOK[i] {
				continue
			}
			signals[i].Action = Sell
			signals[i].StopLoss = close + stopDist
			if s.RiskReward > 0 {
				signals[i].TakeProfit = close - stopDist*s.RiskReward
			}
		}
	}
	return signals, nil
}
