package optimize

import (
	"strconv"
	"strings"
	"time"

	"stratsweep/market"
	"stratsweep/strategies"
)

// Config is one point in the search space, flattened for the results
// artifact. Zero-valued fields are inactive dimensions and stay out of
// the JSON output.
type Config struct {
	FastWindow    int     `json:"fast_window,omitempty"`
	SlowWindow    int     `json:"slow_window,omitempty"`
	BBWindow      int     `json:"bb_window,omitempty"`
	BBStdDev      float64 `json:"bb_std_dev,omitempty"`
	ATRWindow     int     `json:"atr_window,omitempty"`
	ATRMultiplier float64 `json:"atr_multiplier,omitempty"`
	ADXWindow     int     `json:"adx_window,omitempty"`
	ADXThreshold  float64 `json:"adx_threshold,omitempty"`
	MACDFast      int     `json:"macd_fast,omitempty"`
	MaxHoldHours  int     `json:"max_hold_hours,omitempty"`
}

func (c Config) params() strategies.Params {
	return strategies.Params{
		FastWindow:    c.FastWindow,
		SlowWindow:    c.SlowWindow,
		BBWindow:      c.BBWindow,
		BBStdDev:      c.BBStdDev,
		ATRWindow:     c.ATRWindow,
		ATRMultiplier: c.ATRMultiplier,
		ADXWindow:     c.ADXWindow,
		ADXThreshold:  c.ADXThreshold,
		MACDFast:      c.MACDFast,
	}
}

func (c Config) maxHold() time.Duration {
	return time.Duration(c.MaxHoldHours) * time.Hour
}

// Ranges holds the candidate values per search dimension. An empty slice
// means the dimension is inactive. Paired dimensions (window+threshold,
// window+multiplier) must be supplied together or not at all.
type Ranges struct {
	Fast          []int
	Slow          []int
	BBWindow      []int
	BBStdDev      []float64
	ATRWindow     []int
	ATRMultiplier []float64
	ADXWindow     []int
	ADXThreshold  []float64
	MACDFast      []int
	MaxHoldHours  []int
}

// Validate checks the supplied ranges form a legal dimension set for the
// strategy kind before any combination is generated.
func (r Ranges) Validate(kind strategies.Kind) error {
	switch kind {
	case strategies.KindBollingerBand:
		if len(r.BBWindow) == 0 || len(r.BBStdDev) == 0 {
			return market.Configf("bollinger_band search requires bb_window and bb_std_dev ranges")
		}
		if len(r.Fast) > 0 || len(r.Slow) > 0 {
			return market.Configf("bollinger_band search takes bb ranges, not fast/slow")
		}
	default:
		if len(r.Fast) == 0 || len(r.Slow) == 0 {
			return market.Configf("%s search requires fast and slow window ranges", kind)
		}
		if len(r.BBWindow) > 0 || len(r.BBStdDev) > 0 {
			return market.Configf("bb ranges only apply to the bollinger_band strategy")
		}
	}

	if (len(r.ATRWindow) == 0) != (len(r.ATRMultiplier) == 0) {
		return market.Configf("atr_window and atr_multiplier ranges must be supplied together")
	}
	if (len(r.ADXWindow) == 0) != (len(r.ADXThreshold) == 0) {
		return market.Configf("adx_window and adx_threshold ranges must be supplied together")
	}
	if kind == strategies.KindVolatilityAdjusted && len(r.ATRWindow) == 0 {
		return market.Configf("volatility_adjusted search requires atr_window and atr_multiplier ranges")
	}

	// Every macd_fast value runs against the default slow period, so an
	// impossible value must reject the whole grid up front rather than
	// abort the sweep mid-loop.
	for _, f := range r.MACDFast {
		if f <= 0 || f >= strategies.DefaultMACDSlow {
			return market.Configf("macd_fast %d must be positive and below the slow period %d",
				f, strategies.DefaultMACDSlow)
		}
	}
	return nil
}

// Dimensions counts the active search dimensions.
func (r Ranges) Dimensions() int {
	n := 0
	for _, active := range []bool{
		len(r.Fast) > 0, len(r.Slow) > 0,
		len(r.BBWindow) > 0, len(r.BBStdDev) > 0,
		len(r.ATRWindow) > 0, len(r.ATRMultiplier) > 0,
		len(r.ADXWindow) > 0, len(r.ADXThreshold) > 0,
		len(r.MACDFast) > 0, len(r.MaxHoldHours) > 0,
	} {
		if active {
			n++
		}
	}
	return n
}

// Combinations generates the Cartesian product of the active ranges in a
// fixed nesting order, filtered by validity constraints. The order is
// deterministic: two calls with equal ranges yield identical slices.
func (r Ranges) Combinations(kind strategies.Kind) ([]Config, error) {
	if err := r.Validate(kind); err != nil {
		return nil, err
	}

	maKind := kind != strategies.KindBollingerBand
	var out []Config
	for _, fast := range orZeroInts(r.Fast) {
		for _, slow := range orZeroInts(r.Slow) {
			if maKind && fast >= slow {
				continue
			}
			for _, bbw := range orZeroInts(r.BBWindow) {
				for _, bbs := range orZeroFloats(r.BBStdDev) {
					for _, atrw := range orZeroInts(r.ATRWindow) {
						for _, atrm := range orZeroFloats(r.ATRMultiplier) {
							for _, adxw := range orZeroInts(r.ADXWindow) {
								for _, adxt := range orZeroFloats(r.ADXThreshold) {
									for _, macd := range orZeroInts(r.MACDFast) {
										for _, hold := range orZeroInts(r.MaxHoldHours) {
											out = append(out, Config{
												FastWindow:    fast,
												SlowWindow:    slow,
												BBWindow:      bbw,
												BBStdDev:      bbs,
												ATRWindow:     atrw,
												ATRMultiplier: atrm,
												ADXWindow:     adxw,
												ADXThreshold:  adxt,
												MACDFast:      macd,
												MaxHoldHours:  hold,
											})
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, market.Configf("parameter ranges produce no valid combinations")
	}
	return out, nil
}

func orZeroInts(xs []int) []int {
	if len(xs) == 0 {
		return []int{0}
	}
	return xs
}

func orZeroFloats(xs []float64) []float64 {
	if len(xs) == 0 {
		return []float64{0}
	}
	return xs
}

// ParseIntRange parses a comma-separated flag value like "5,10,20".
func ParseIntRange(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, market.Configf("bad integer %q in range %q", part, s)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseFloatRange parses a comma-separated flag value like "1.5,2.0".
func ParseFloatRange(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, market.Configf("bad number %q in range %q", part, s)
		}
		out = append(out, v)
	}
	return out, nil
}
