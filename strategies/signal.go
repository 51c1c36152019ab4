// Package strategies implements the signal pipeline: strategies that turn
// a price series into per-bar trading signals, and the optional regime
// and momentum filters that gate their entries.
package strategies

// Action is the directional decision at one bar.
type Action int8

const (
	Neutral Action = 0
	Buy     Action = 1
	Sell    Action = -1
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "NEUTRAL"
}

// Signal is the pipeline output for one bar. Action is the filtered
// decision used for entries. Raw is the strategy's bare trigger before
// any entry gate: position exits read Raw, so a reverse trigger can
// always close a position regardless of filter state. StopLoss and
// TakeProfit are price levels the strategy wants attached if this
// signal opens a position; zero means none.
type Signal struct {
	Action     Action
	Raw        Action
	StopLoss   float64
	TakeProfit float64
}

// Regime is the market-state classification at one bar, derived purely
// from ADX/DMI and independent of any signal.
type Regime int8

const (
	Ranging Regime = iota
	TrendingUp
	TrendingDown
)

func (r Regime) String() string {
	switch r {
	case TrendingUp:
		return "TRENDING_UP"
	case TrendingDown:
		return "TRENDING_DOWN"
	}
	return "RANGING"
}
