package optimize

import "sort"

// minInSampleSharpe is the epsilon below which an in-sample Sharpe is
// treated as no edge at all: the degradation ratio would explode, so the
// configuration is disqualified outright.
const minInSampleSharpe = 0.01

// robustnessFactor rewards configurations that hold up out-of-sample:
// sharpe_oos scaled by how much of the in-sample Sharpe survived.
// Non-positive out-of-sample performance disqualifies regardless of
// in-sample strength.
func robustnessFactor(sharpeIS, sharpeOOS float64) (factor, degradation float64) {
	if sharpeOOS <= 0 || sharpeIS <= minInSampleSharpe {
		return 0, 0
	}
	degradation = sharpeOOS / sharpeIS
	return sharpeOOS * degradation, degradation
}

// Rank scores every walk-forward result and sorts descending by
// robustness factor. Results without out-of-sample metrics score zero.
// The sort is stable, so equal scores keep their sweep order.
func Rank(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	for i := range ranked {
		if ranked[i].OutSample == nil {
			ranked[i].RobustnessFactor = 0
			ranked[i].DegradationRatio = 0
			continue
		}
		ranked[i].RobustnessFactor, ranked[i].DegradationRatio =
			robustnessFactor(ranked[i].InSample.SharpeRatio, ranked[i].OutSample.SharpeRatio)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RobustnessFactor > ranked[j].RobustnessFactor
	})
	return ranked
}

// Recommend returns the highest-ranked configuration, or false when no
// result earned a positive robustness factor.
func Recommend(ranked []Result) (Result, bool) {
	if len(ranked) == 0 || ranked[0].RobustnessFactor <= 0 {
		return Result{}, false
	}
	return ranked[0], true
}
