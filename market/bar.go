// Package market provides price series types, timeframe arithmetic, and
// data-source plumbing for backtests and parameter sweeps.
package market

import "time"

// Bar represents one OHLCV observation. Bars are created once by a data
// source and never mutated afterwards.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered sequence of bars for one symbol/timeframe.
// Timestamps are strictly increasing. A Series is loaded once per run and
// treated as read-only by every consumer.
type Series struct {
	Symbol    string
	Timeframe string
	Bars      []Bar
}

func (s Series) Len() int { return len(s.Bars) }

// Validate checks ordering and field sanity. Bars must be sorted ascending
// with no duplicate timestamps, and every bar needs a usable OHLC.
func (s Series) Validate() error {
	for i, b := range s.Bars {
		if b.Time.IsZero() {
			return Dataf("bar %d has zero timestamp", i)
		}
		if b.High < b.Low || b.Close <= 0 || b.Open <= 0 {
			return Dataf("bar %d at %s has malformed OHLC (o=%g h=%g l=%g c=%g)",
				i, b.Time.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close)
		}
		if i > 0 && !s.Bars[i-1].Time.Before(b.Time) {
			return Dataf("bars out of order at %d: %s !< %s",
				i, s.Bars[i-1].Time.Format(time.RFC3339), b.Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Window returns the sub-series with start <= bar.Time <= end.
// The backing array is shared; callers must not mutate bars.
func (s Series) Window(start, end time.Time) Series {
	lo := 0
	for lo < len(s.Bars) && s.Bars[lo].Time.Before(start) {
		lo++
	}
	hi := len(s.Bars)
	for hi > lo && s.Bars[hi-1].Time.After(end) {
		hi--
	}
	return Series{Symbol: s.Symbol, Timeframe: s.Timeframe, Bars: s.Bars[lo:hi]}
}

// Drop returns the series without its first n bars. Used to discard
// indicator warm-up rows before simulation.
func (s Series) Drop(n int) Series {
	if n >= len(s.Bars) {
		return Series{Symbol: s.Symbol, Timeframe: s.Timeframe}
	}
	return Series{Symbol: s.Symbol, Timeframe: s.Timeframe, Bars: s.Bars[n:]}
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}
