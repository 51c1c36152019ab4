package strategies

import (
	"fmt"

	"stratsweep/indicators"
	"stratsweep/market"
)

// BollingerBand is a mean-reversion strategy: a close crossing below the
// lower band triggers BUY (oversold bounce), a close crossing above the
// upper band triggers SELL (overbought pullback). When an ATR window is
// configured, entries carry ATR-derived stop levels.
type BollingerBand struct {
	gates
	Window int
	StdDev float64

	ATRWindow     int
	ATRMultiplier float64
	RiskReward    float64
}

func (s *BollingerBand) Name() string {
	return fmt.Sprintf("bollinger_band(%d,%.1f)", s.Window, s.StdDev)
}

func (s *BollingerBand) MaxLookback() int {
	lb := s.Window
	if s.ATRWindow > 0 && s.ATRWindow+1 > lb {
		lb = s.ATRWindow + 1
	}
	if f := s.maxFilterLookback(); f > lb {
		lb = f
	}
	return lb
}

func (s *BollingerBand) Indicators(series market.Series) (Frame, error) {
	closes := series.Closes()
	bands := indicators.Bollinger(closes, s.Window, s.StdDev)
	frame := Frame{
		"bb_middle": bands.Middle,
		"bb_upper":  bands.Upper,
		"bb_lower":  bands.Lower,
	}
	if s.ATRWindow > 0 {
		frame["atr"] = indicators.ATR(series.Bars, s.ATRWindow)
	}
	return frame, nil
}

func (s *BollingerBand) Signals(series market.Series, frame Frame) ([]Signal, error) {
	upper := frame.Col("bb_upper")
	lower := frame.Col("bb_lower")
	if len(upper) != series.Len() || len(lower) != series.Len() {
		return nil, market.Dataf("indicator frame misaligned with series")
	}
	atr := frame.Col("atr")

	buyOK := s.entryAllowed(series.Bars, Buy)
	sellOK := s.entryAllowed(series.Bars, Sell)

	warm := s.Window
	if s.ATRWindow > 0 && s.ATRWindow+1 > warm {
		warm = s.ATRWindow + 1
	}

	signals := make([]Signal, series.Len())
	for i := warm; i < series.Len(); i++ {
		prev := series.Bars[i-1].Close
		close := series.Bars[i].Close

		crossedBelow := prev >= lower[i-1] && close < lower[i]
		crossedAbove := prev <= upper[i-1] && close > upper[i]

		var sig Signal
		switch {
		case crossedBelow:
			sig.Raw = Buy
			if buyOK[i] {
				sig.Action = Buy
			}
		case crossedAbove:
			sig.Raw = Sell
			if sellOK[i] {
				sig.Action = Sell
			}
		default:
			continue
		}
		if sig.Action == Neutral {
			signals[i] = sig
			continue
		}

		if atr != nil && s.ATRMultiplier > 0 {
			stopDist := atr[i] * s.ATRMultiplier
			if sig.Action == Buy {
				sig.StopLoss = close - stopDist
				if s.RiskReward > 0 {
					sig.TakeProfit = close + stopDist*s.RiskReward
				}
			} else {
				sig.StopLoss = close + stopDist
				if s.RiskReward > 0 {
					sig.TakeProfit = close - stopDist*s.RiskReward
				}
			}
		}
		signals[i] = sig
	}
	return signals, nil
}
