package strategies

import "stratsweep/market"

// EntryFilter gates entry signals. Filters are advisory quality gates:
// a strategy combines its raw trigger with every filter's verdict for the
// intended direction, but exit signals bypass filters entirely so risk
// management can always close a position.
//
// A filter that fails or returns a malformed slice is degraded to
// "no filtering" by the caller rather than aborting the run.
type EntryFilter interface {
	// MaxLookback returns how many leading bars the filter needs before
	// its verdicts are trustworthy.
	MaxLookback() int

	// EntryValid reports, per bar, whether an entry in the given
	// direction may proceed. The returned slice is aligned 1:1 with bars.
	EntryValid(bars []market.Bar, dir Action) ([]bool, error)
}

// PassFilter is the null filter: it approves every entry and needs no
// warm-up. Injecting it instead of nil keeps the pipeline free of nil
// checks.
type PassFilter struct{}

func (PassFilter) MaxLookback() int { return 0 }

func (PassFilter) EntryValid(bars []market.Bar, _ Action) ([]bool, error) {
	ok := make([]bool, len(bars))
	for i := range ok {
		ok[i] = true
	}
	return ok, nil
}
