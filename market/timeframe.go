package market

import (
	"strconv"
	"time"
)

// minutesPerYear assumes a 24/7 market (crypto). 365 * 24 * 60.
const minutesPerYear = 525_600

// TimeframeMinutes parses a ccxt-style timeframe string ("1m", "15m",
// "1h", "4h", "1d", "1w") into the number of minutes per bar. An
// unrecognized timeframe is a ConfigError, never a silent default.
func TimeframeMinutes(timeframe string) (int, error) {
	if len(timeframe) < 2 {
		return 0, Configf("unrecognized timeframe %q", timeframe)
	}
	unit := timeframe[len(timeframe)-1]
	n, err := strconv.Atoi(timeframe[:len(timeframe)-1])
	if err != nil || n <= 0 {
		return 0, Configf("unrecognized timeframe %q", timeframe)
	}
	switch unit {
	case 'm':
		return n, nil
	case 'h':
		return n * 60, nil
	case 'd':
		return n * 60 * 24, nil
	case 'w':
		return n * 60 * 24 * 7, nil
	}
	return 0, Configf("unrecognized timeframe %q", timeframe)
}

// TimeframeDuration returns the bar interval as a time.Duration.
func TimeframeDuration(timeframe string) (time.Duration, error) {
	minutes, err := TimeframeMinutes(timeframe)
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

// PeriodsPerYear returns the annualization factor for Sharpe ratios:
// 1h -> 8760, 4h -> 2190, 1d -> 365.
func PeriodsPerYear(timeframe string) (float64, error) {
	minutes, err := TimeframeMinutes(timeframe)
	if err != nil {
		return 0, err
	}
	return float64(minutesPerYear) / float64(minutes), nil
}
