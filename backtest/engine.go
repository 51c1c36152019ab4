package backtest

import (
	"time"

	"github.com/rs/zerolog"

	"stratsweep/market"
	"stratsweep/strategies"
)

// Engine walks a price series bar by bar, turning pipeline signals into a
// position/trade/equity timeline. It is deterministic: the same series,
// window, and strategy always produce bit-identical results.
type Engine struct {
	// MaxHold force-closes any position held longer than this duration,
	// independent of price. Zero disables the rule.
	MaxHold time.Duration

	// Sink, when set, receives every closed trade.
	Sink TradeSink

	Log zerolog.Logger
}

// Run simulates the strategy over [start, end].
//
// The input series must carry buffer history before start: indicators are
// computed over the entire buffered series so they see continuous
// history, never a window with an artificial start. The first
// MaxLookback rows are then dropped unconditionally, even if they fall
// inside the requested window, and only then is the series sliced to the
// window. Every consumed signal is therefore backed by fully warmed
// indicators.
func (e *Engine) Run(buffered market.Series, start, end time.Time, strat strategies.Strategy) (Result, error) {
	periodsPerYear, err := market.PeriodsPerYear(buffered.Timeframe)
	if err != nil {
		return Result{}, err
	}
	if !start.Before(end) {
		return Result{}, market.Configf("start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	warm := strat.MaxLookback()
	if buffered.Len() <= warm {
		return Result{}, market.Dataf("series has %d bars, need more than lookback %d", buffered.Len(), warm)
	}
	if err := checkPriceFields(buffered.Bars); err != nil {
		return Result{}, err
	}

	frame, err := strat.Indicators(buffered)
	if err != nil {
		return Result{}, err
	}
	signals, err := strat.Signals(buffered, frame)
	if err != nil {
		return Result{}, err
	}
	if len(signals) != buffered.Len() {
		return Result{}, market.Dataf("pipeline produced %d signals for %d bars", len(signals), buffered.Len())
	}

	// Drop warm-up rows, counting how many the requested window loses.
	insideWindow := 0
	for i := 0; i < warm; i++ {
		t := buffered.Bars[i].Time
		if !t.Before(start) && !t.After(end) {
			insideWindow++
		}
	}
	trimmed := buffered.Bars[warm:]
	signals = signals[warm:]
	e.Log.Debug().
		Int("dropped", warm).
		Int("inside_window", insideWindow).
		Str("strategy", strat.Name()).
		Msg("discarded indicator warm-up rows")

	// Slice to the requested window.
	lo := 0
	for lo < len(trimmed) && trimmed[lo].Time.Before(start) {
		lo++
	}
	hi := len(trimmed)
	for hi > lo && trimmed[hi-1].Time.After(end) {
		hi--
	}
	if lo == hi {
		return Result{}, market.Dataf("no bars in window [%s, %s] after warm-up",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	res := e.simulate(buffered.Symbol, trimmed[lo:hi], signals[lo:hi], strat.LongOnly())
	res.DroppedBars = warm
	res.Metrics = computeMetrics(res, periodsPerYear)
	return res, nil
}

// simulate is the bar walk. Exits are evaluated in strict priority order
// (stop-loss, take-profit, max-hold, strategy signal); entries are only
// considered on bars where no exit fired. Entries consume the filtered
// Action while reverse exits consume the raw trigger, so an entry filter
// can never keep a position from closing. Fills happen at bar close
// except stop/take hits, which fill at their level.
func (e *Engine) simulate(symbol string, bars []market.Bar, signals []strategies.Signal, longOnly bool) Result {
	var (
		pos      Position
		trades   []Trade
		returns  = make([]float64, len(bars))
		equity   = 1.0
		curve    = make([]EquityPoint, 0, len(bars))
		prevMark float64
	)

	for i, bar := range bars {
		sig := signals[i]
		exited := false

		if pos.Open {
			if px, reason, hit := e.checkExit(pos, bar, sig.Raw); hit {
				returns[i] = float64(pos.Side) * (px/prevMark - 1)
				trades = append(trades, e.closePosition(symbol, &pos, bar.Time, px, reason))
				exited = true
			} else {
				returns[i] = float64(pos.Side) * (bar.Close/prevMark - 1)
			}
		}

		equity *= 1 + returns[i]
		curve = append(curve, EquityPoint{Time: bar.Time, Equity: equity})

		// Entries only on bars without an exit, and only while flat.
		if !exited && !pos.Open {
			switch sig.Action {
			case strategies.Buy:
				pos = openPosition(Long, bar, sig)
			case strategies.Sell:
				if !longOnly {
					pos = openPosition(Short, bar, sig)
				}
			}
		}

		prevMark = bar.Close
	}

	return Result{Trades: trades, Equity: curve, returns: returns}
}

// checkExit applies the exit priority chain on one bar. If both stop and
// take levels are crossed intrabar, the stop wins: worst case for the
// trader. The trigger is the strategy's unfiltered one.
func (e *Engine) checkExit(pos Position, bar market.Bar, trigger strategies.Action) (px float64, reason ExitReason, hit bool) {
	hasStop := pos.StopLoss > 0
	hasTake := pos.TakeProfit > 0

	switch pos.Side {
	case Long:
		if hasStop && bar.Low <= pos.StopLoss {
			return pos.StopLoss, ExitStopLoss, true
		}
		if hasTake && bar.High >= pos.TakeProfit {
			return pos.TakeProfit, ExitTakeProfit, true
		}
	case Short:
		if hasStop && bar.High >= pos.StopLoss {
			return pos.StopLoss, ExitStopLoss, true
		}
		if hasTake && bar.Low <= pos.TakeProfit {
			return pos.TakeProfit, ExitTakeProfit, true
		}
	}

	if e.MaxHold > 0 && bar.Time.Sub(pos.EntryTime) >= e.MaxHold {
		return bar.Close, ExitMaxHold, true
	}

	if (pos.Side == Long && trigger == strategies.Sell) ||
		(pos.Side == Short && trigger == strategies.Buy) {
		return bar.Close, ExitSignal, true
	}

	return 0, "", false
}

func openPosition(side Side, bar market.Bar, sig strategies.Signal) Position {
	return Position{
		Open:       true,
		Side:       side,
		EntryPrice: bar.Close,
		EntryTime:  bar.Time,
		Quantity:   1,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
	}
}

func (e *Engine) closePosition(symbol string, pos *Position, exitTime time.Time, exitPx float64, reason ExitReason) Trade {
	t := Trade{
		Symbol:     symbol,
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		EntryTime:  pos.EntryTime,
		ExitPrice:  exitPx,
		ExitTime:   exitTime,
		Quantity:   pos.Quantity,
		PnL:        float64(pos.Side) * (exitPx/pos.EntryPrice - 1),
		ExitReason: reason,
	}
	pos.Open = false

	if e.Sink != nil {
		if err := e.Sink.RecordTrade(t); err != nil {
			e.Log.Warn().Err(err).Msg("trade sink rejected trade")
		}
	}
	return t
}
