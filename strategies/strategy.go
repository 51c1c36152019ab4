package strategies

import (
	"github.com/rs/zerolog"

	"stratsweep/market"
)

// Frame holds derived indicator columns aligned 1:1 with a price series.
// Leading rows are undefined until the strategy's warm-up elapses and
// must be excluded by explicit slicing, never consumed.
type Frame map[string][]float64

// Col returns a named column, or nil if absent.
func (f Frame) Col(name string) []float64 { return f[name] }

// Strategy is the signal pipeline contract. A strategy owns its indicator
// computation and raw trigger generation and combines the trigger with
// its injected entry filters into a final per-bar signal.
type Strategy interface {
	Name() string

	// MaxLookback is the maximum warm-up across the strategy's own
	// indicators and every injected filter. Bars before this index carry
	// untrustworthy values.
	MaxLookback() int

	// Indicators computes the strategy's indicator columns over the full
	// series.
	Indicators(series market.Series) (Frame, error)

	// Signals combines raw triggers with filter verdicts into one signal
	// per bar. The frame must come from Indicators on the same series.
	Signals(series market.Series, frame Frame) ([]Signal, error)

	// LongOnly reports whether short entries are disabled. The engine
	// suppresses SELL entries for long-only strategies; exits are never
	// affected.
	LongOnly() bool
}

// gates bundles the injected filters and the degradation policy shared by
// every strategy implementation.
type gates struct {
	regime   EntryFilter
	momentum EntryFilter
	longOnly bool
	log      zerolog.Logger
}

func (g *gates) LongOnly() bool { return g.longOnly }

func (g *gates) maxFilterLookback() int {
	lb := g.regime.MaxLookback()
	if m := g.momentum.MaxLookback(); m > lb {
		lb = m
	}
	return lb
}

// entryAllowed ANDs the verdicts of both filters for the direction. A
// filter that errors or returns a wrong-length slice is degraded to
// always-true for this pass: filters are advisory, not correctness
// critical.
func (g *gates) entryAllowed(bars []market.Bar, dir Action) []bool {
	ok := make([]bool, len(bars))
	for i := range ok {
		ok[i] = true
	}
	for _, f := range []EntryFilter{g.regime, g.momentum} {
		verdicts, err := f.EntryValid(bars, dir)
		if err != nil {
			g.log.Warn().Err(err).Str("direction", dir.String()).
				Msg("entry filter failed, degrading to no filtering")
			continue
		}
		if len(verdicts) != len(bars) {
			g.log.Warn().Int("got", len(verdicts)).Int("want", len(bars)).
				Msg("entry filter returned malformed output, degrading to no filtering")
			continue
		}
		for i, v := range verdicts {
			ok[i] = ok[i] && v
		}
	}
	return ok
}
