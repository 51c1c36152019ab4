package market

import "fmt"

// ConfigError reports an invalid invocation: an unknown timeframe, a split
// date outside the search window, a half-supplied parameter pair. It is
// fatal to the whole run and surfaces before any computation starts.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// Configf builds a ConfigError.
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// DataError reports unusable market data for one evaluation: a series
// shorter than the required lookback, malformed OHLCV fields, an empty
// window. It is fatal to that evaluation only; a sweep catches it, logs
// it, and moves on.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return "data: " + e.Msg }

// Dataf builds a DataError.
func Dataf(format string, args ...any) error {
	return &DataError{Msg: fmt.Sprintf(format, args...)}
}
