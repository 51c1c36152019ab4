package strategies

import (
	"github.com/rs/zerolog"

	"stratsweep/market"
)

// Kind is the closed set of strategy implementations. Strategies are
// resolved through New rather than open-ended registration so the search
// space of a sweep is always a known quantity.
type Kind int8

const (
	KindSMACross Kind = iota
	KindVolatilityAdjusted
	KindBollingerBand
)

func (k Kind) String() string {
	switch k {
	case KindSMACross:
		return "sma_cross"
	case KindVolatilityAdjusted:
		return "volatility_adjusted"
	case KindBollingerBand:
		return "bollinger_band"
	}
	return "unknown"
}

// ParseKind resolves a config-file strategy name.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "sma_cross":
		return KindSMACross, nil
	case "volatility_adjusted", "ema_atr":
		return KindVolatilityAdjusted, nil
	case "bollinger_band":
		return KindBollingerBand, nil
	}
	return 0, market.Configf("unknown strategy %q (supported: sma_cross, volatility_adjusted, bollinger_band)", name)
}

// Params is one immutable point in the parameter space. Which fields are
// meaningful depends on the Kind; filter fields are shared. Zero filter
// windows mean "filter disabled".
type Params struct {
	// Moving-average strategies.
	FastWindow int
	SlowWindow int

	// Bollinger strategy.
	BBWindow int
	BBStdDev float64

	// ATR risk management.
	ATRWindow          int
	ATRMultiplier      float64
	VolatilityLookback int
	RiskReward         float64

	// Regime filter (both or neither).
	ADXWindow    int
	ADXThreshold float64

	// Momentum filter. MACDFast enables it; slow/signal default to 26/9.
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	LongOnly bool
}

// DefaultMACDSlow is the slow period the momentum filter falls back to
// when a configuration only supplies the fast period.
const DefaultMACDSlow = 26

const (
	defaultMACDSignal         = 9
	defaultVolatilityLookback = 5
)

// New builds a strategy of the given kind with its filters injected.
// Parameter validation happens here, before any data is touched.
func New(kind Kind, p Params, log zerolog.Logger) (Strategy, error) {
	g, err := buildGates(kind, p, log)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSMACross:
		if p.FastWindow <= 0 || p.SlowWindow <= 0 {
			return nil, market.Configf("sma_cross requires positive fast/slow windows (fast=%d slow=%d)",
				p.FastWindow, p.SlowWindow)
		}
		if p.FastWindow >= p.SlowWindow {
			return nil, market.Configf("fast window %d must be below slow window %d", p.FastWindow, p.SlowWindow)
		}
		return &SMACross{gates: g, FastWindow: p.FastWindow, SlowWindow: p.SlowWindow}, nil

	case KindVolatilityAdjusted:
		if p.FastWindow <= 0 || p.SlowWindow <= 0 {
			return nil, market.Configf("volatility_adjusted requires positive fast/slow windows (fast=%d slow=%d)",
				p.FastWindow, p.SlowWindow)
		}
		if p.FastWindow >= p.SlowWindow {
			return nil, market.Configf("fast window %d must be below slow window %d", p.FastWindow, p.SlowWindow)
		}
		if p.ATRWindow <= 0 || p.ATRMultiplier <= 0 {
			return nil, market.Configf("volatility_adjusted requires atr window and multiplier (window=%d mult=%g)",
				p.ATRWindow, p.ATRMultiplier)
		}
		lookback := p.VolatilityLookback
		if lookback <= 0 {
			lookback = defaultVolatilityLookback
		}
		return &VolatilityAdjusted{
			gates:              g,
			FastWindow:         p.FastWindow,
			SlowWindow:         p.SlowWindow,
			ATRWindow:          p.ATRWindow,
			ATRMultiplier:      p.ATRMultiplier,
			VolatilityLookback: lookback,
			RiskReward:         p.RiskReward,
		}, nil

	case KindBollingerBand:
		if p.BBWindow <= 0 {
			return nil, market.Configf("bollinger_band window must be positive, got %d", p.BBWindow)
		}
		if p.BBStdDev <= 0 {
			return nil, market.Configf("bollinger_band std-dev multiplier must be positive, got %g", p.BBStdDev)
		}
		return &BollingerBand{
			gates:         g,
			Window:        p.BBWindow,
			StdDev:        p.BBStdDev,
			ATRWindow:     p.ATRWindow,
			ATRMultiplier: p.ATRMultiplier,
			RiskReward:    p.RiskReward,
		}, nil
	}
	return nil, market.Configf("unknown strategy kind %d", kind)
}

func buildGates(kind Kind, p Params, log zerolog.Logger) (gates, error) {
	g := gates{
		regime:   PassFilter{},
		momentum: PassFilter{},
		longOnly: p.LongOnly,
		log:      log,
	}

	switch {
	case p.ADXWindow > 0 && p.ADXThreshold > 0:
		mode := TrendFollowing
		if kind == KindBollingerBand {
			mode = MeanReversion
		}
		g.regime = NewADXRegimeFilter(p.ADXWindow, p.ADXThreshold, mode)
	case p.ADXWindow > 0 || p.ADXThreshold > 0:
		return gates{}, market.Configf("regime filter requires both adx window and threshold (window=%d threshold=%g)",
			p.ADXWindow, p.ADXThreshold)
	}

	if p.MACDFast > 0 {
		slow := p.MACDSlow
		if slow <= 0 {
			slow = DefaultMACDSlow
		}
		signal := p.MACDSignal
		if signal <= 0 {
			signal = defaultMACDSignal
		}
		if p.MACDFast >= slow {
			return gates{}, market.Configf("macd fast period %d must be below slow period %d", p.MACDFast, slow)
		}
		g.momentum = NewMACDMomentumFilter(p.MACDFast, slow, signal)
	}
	return g, nil
}
