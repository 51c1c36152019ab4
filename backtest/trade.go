// Package backtest simulates a signal pipeline over a historical price
// series and reduces the outcome to an equity curve and scalar metrics.
package backtest

import (
	"time"

	"stratsweep/market"
)

// Side: +1 long, -1 short.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// ExitReason records why a position closed. Exactly one of these values
// appears on every closed trade.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
	ExitMaxHold    ExitReason = "MAX_HOLD_PERIOD"
	ExitSignal     ExitReason = "STRATEGY_SIGNAL"
)

// Position is the single simulated open position. The engine maintains at
// most one, in one direction, at a time (no pyramiding).
type Position struct {
	Open       bool
	Side       Side
	EntryPrice float64
	EntryTime  time.Time
	Quantity   float64
	StopLoss   float64 // 0 means none
	TakeProfit float64 // 0 means none
}

// Trade is a closed simulated position, appended immutably when the
// position closes.
type Trade struct {
	Symbol     string
	Side       Side
	EntryPrice float64
	EntryTime  time.Time
	ExitPrice  float64
	ExitTime   time.Time
	Quantity   float64
	PnL        float64 // realized fractional return: side * (exit/entry - 1)
	ExitReason ExitReason
}

// TradeSink receives closed trades for persistence. The engine works
// correctly with no sink attached; sink failures are logged, never fatal.
type TradeSink interface {
	RecordTrade(t Trade) error
}

// EquityPoint is one sample of the cumulative return multiplier curve.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Metrics is the scalar summary of one simulation.
type Metrics struct {
	TotalReturn float64 `json:"total_return"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// Result bundles metrics with the simulation's side artifacts.
type Result struct {
	Metrics     Metrics
	Trades      []Trade
	Equity      []EquityPoint
	DroppedBars int // warm-up rows discarded before simulation

	// per-bar simple returns, kept for metric computation
	returns []float64
}

// checkPriceFields rejects series rows missing usable OHLC before the
// simulation consumes them.
func checkPriceFields(bars []market.Bar) error {
	for i, b := range bars {
		if b.Close <= 0 || b.High <= 0 || b.Low <= 0 {
			return market.Dataf("bar %d at %s missing required price fields", i, b.Time.Format(time.RFC3339))
		}
	}
	return nil
}
