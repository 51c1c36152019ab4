package market

import (
	"context"
	"time"
)

// PriceDataSource supplies historical bars. Implementations must return
// bars sorted ascending by timestamp with no duplicates; retry and
// pagination against a remote venue are the implementation's problem, not
// the core's.
type PriceDataSource interface {
	GetSeries(ctx context.Context, symbol, timeframe string, start, end time.Time) (Series, error)
}
