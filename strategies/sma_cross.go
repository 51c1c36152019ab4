package strategies

import (
	"fmt"

	"stratsweep/indicators"
	"stratsweep/market"
)

// SMACross is the classic fast/slow simple-moving-average crossover:
// a golden cross triggers BUY, a death cross triggers SELL.
type SMACross struct {
	gates
	FastWindow int
	SlowWindow int
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("sma_cross(%d,%d)", s.FastWindow, s.SlowWindow)
}

func (s *SMACross) MaxLookback() int {
	lb := s.SlowWindow
	if f := s.maxFilterLookback(); f > lb {
		lb = f
	}
	return lb
}

func (s *SMACross) Indicators(series market.Series) (Frame, error) {
	closes := series.Closes()
	return Frame{
		"sma_fast": indicators.SMA(closes, s.FastWindow),
		"sma_slow": indicators.SMA(closes, s.SlowWindow),
	}, nil
}

func (s *SMACross) Signals(series market.Series, frame Frame) ([]Signal, error) {
	fast := frame.Col("sma_fast")
	slow := frame.Col("sma_slow")
	if len(fast) != series.Len() || len(slow) != series.Len() {
		return nil, market.Dataf("indicator frame misaligned with series")
	}

	buyOK := s.entryAllowed(series.Bars, Buy)
	sellOK := s.entryAllowed(series.Bars, Sell)

	signals := make([]Signal, series.Len())
	for i := s.SlowWindow; i < series.Len(); i++ {
		golden := fast[i-1] <= slow[i-1] && fast[i] > slow[i]
		death := fast[i-1] >= slow[i-1] && fast[i] < slow[i]

		switch {
		case golden:
			signals[i].Raw = Buy
			if buyOK[i] {
				signals[i].Action = Buy
			}
		case death:
			signals[i].Raw = Sell
			if sellOK[i] {
				signals[i].Action = Sell
			}
		}
	}
	return signals, nil
}
