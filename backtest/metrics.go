package backtest

import "math"

// computeMetrics derives the summary statistics for a finished
// simulation. A run with no closed trades reports zero return and zero
// sharpe regardless of the equity curve.
func computeMetrics(res Result, periodsPerYear float64) Metrics {
	var m Metrics
	if len(res.Trades) == 0 || len(res.Equity) == 0 {
		return m
	}

	m.TotalReturn = res.Equity[len(res.Equity)-1].Equity - 1
	m.SharpeRatio = annualizedSharpe(res.returns, periodsPerYear)
	m.MaxDrawdown = maxDrawdown(res.Equity)
	return m
}

// annualizedSharpe is mean over population standard deviation of the
// per-bar returns, scaled by sqrt of bars per year. Zero-variance
// series score zero rather than blowing up.
func annualizedSharpe(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(returns)))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear)
}

// maxDrawdown is the most negative peak-to-trough excursion of the
// equity curve, expressed as a fraction (always <= 0).
func maxDrawdown(curve []EquityPoint) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if dd := p.Equity/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}
