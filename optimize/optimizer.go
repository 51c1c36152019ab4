package optimize

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"stratsweep/backtest"
	"stratsweep/market"
	"stratsweep/strategies"
)

// loadBufferBars is the history requested before the search window so
// that every combination's warm-up, including the deepest two-stage ADX
// smoothing the supported grids allow, is satisfied without re-querying
// the data source.
const loadBufferBars = 1000

// Result is one search-space point's outcome.
type Result struct {
	Config           Config            `json:"config"`
	InSample         backtest.Metrics  `json:"is_metrics"`
	OutSample        *backtest.Metrics `json:"oos_metrics,omitempty"`
	RobustnessFactor float64           `json:"robustness_factor"`
	DegradationRatio float64           `json:"degradation_ratio"`
}

// Optimizer runs a walk-forward grid search over one price series. The
// series is loaded exactly once; every evaluation reads the in-memory
// copy.
type Optimizer struct {
	source *market.CachedSource
	log    zerolog.Logger

	series     market.Series
	start, end time.Time
	loaded     bool
}

func New(src market.PriceDataSource, log zerolog.Logger) *Optimizer {
	return &Optimizer{source: market.NewCachedSource(src), log: log}
}

// Load fetches the buffered series for [start, end]. Must be called once
// before Search; the buffer in front of start covers indicator warm-up.
func (o *Optimizer) Load(ctx context.Context, symbol, timeframe string, start, end time.Time) error {
	if !start.Before(end) {
		return market.Configf("start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	barDur, err := market.TimeframeDuration(timeframe)
	if err != nil {
		return err
	}

	bufferedStart := start.Add(-time.Duration(loadBufferBars) * barDur)
	series, err := o.source.GetSeries(ctx, symbol, timeframe, bufferedStart, end)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return market.Dataf("no bars for %s %s in [%s, %s]",
			symbol, timeframe, bufferedStart.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	o.series = series
	o.start = start
	o.end = end
	o.loaded = true
	o.log.Info().
		Str("symbol", symbol).
		Str("timeframe", timeframe).
		Int("bars", series.Len()).
		Time("buffered_start", bufferedStart).
		Msg("price series loaded")
	return nil
}

// Search sweeps every valid combination of the supplied ranges.
//
// With a zero split, each combination runs over the full window and the
// results come back ranked by Sharpe. With a split date (strictly inside
// the window), all in-sample runs on [start, split] complete first, the
// top-N by in-sample Sharpe are re-run on [split, end], and only those
// carry out-of-sample metrics. A combination that fails with a data
// error is logged and left out of the results entirely.
func (o *Optimizer) Search(kind strategies.Kind, ranges Ranges, split time.Time, topN int) ([]Result, error) {
	if !o.loaded {
		return nil, market.Configf("optimizer has no loaded series; call Load first")
	}
	walkForward := !split.IsZero()
	if walkForward && (!split.After(o.start) || !split.Before(o.end)) {
		return nil, market.Configf("split date %s must be strictly between %s and %s",
			split.Format(time.RFC3339), o.start.Format(time.RFC3339), o.end.Format(time.RFC3339))
	}
	if topN <= 0 {
		topN = 5
	}

	combos, err := ranges.Combinations(kind)
	if err != nil {
		return nil, err
	}
	o.log.Info().
		Str("strategy", kind.String()).
		Int("dimensions", ranges.Dimensions()).
		Int("combinations", len(combos)).
		Bool("walk_forward", walkForward).
		Msg("starting parameter sweep")

	isEnd := o.end
	if walkForward {
		isEnd = split
	}

	results := make([]Result, 0, len(combos))
	for _, cfg := range combos {
		m, err := o.evaluate(kind, cfg, o.start, isEnd)
		if err != nil {
			if isSkippable(err) {
				o.log.Warn().Err(err).Interface("config", cfg).Msg("combination skipped")
				continue
			}
			return nil, err
		}
		results = append(results, Result{Config: cfg, InSample: m})
	}

	// Stable sort keeps grid order on Sharpe ties, so top-N selection
	// is deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].InSample.SharpeRatio > results[j].InSample.SharpeRatio
	})

	if !walkForward {
		return results, nil
	}

	if len(results) > topN {
		results = results[:topN]
	}
	for i := range results {
		m, err := o.evaluate(kind, results[i].Config, split, o.end)
		if err != nil {
			if isSkippable(err) {
				o.log.Warn().Err(err).Interface("config", results[i].Config).Msg("out-of-sample run skipped")
				continue
			}
			return nil, err
		}
		oos := m
		results[i].OutSample = &oos
	}
	return results, nil
}

func (o *Optimizer) evaluate(kind strategies.Kind, cfg Config, start, end time.Time) (backtest.Metrics, error) {
	strat, err := strategies.New(kind, cfg.params(), o.log)
	if err != nil {
		return backtest.Metrics{}, err
	}
	engine := backtest.Engine{MaxHold: cfg.maxHold(), Log: o.log}
	res, err := engine.Run(o.series, start, end, strat)
	if err != nil {
		return backtest.Metrics{}, err
	}
	return res.Metrics, nil
}

// isSkippable reports whether a per-combination failure should be
// absorbed by the sweep. Configuration errors abort the whole run.
func isSkippable(err error) bool {
	var de *market.DataError
	return errors.As(err, &de)
}
