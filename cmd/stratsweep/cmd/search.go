package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stratsweep/market"
	"stratsweep/optimize"
	"stratsweep/pkg/id"
	"stratsweep/strategies"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Walk-forward parameter grid search",
	Long: `Search sweeps the Cartesian product of the supplied parameter ranges,
ranks combinations by in-sample Sharpe, validates the top performers
out-of-sample when a split date is given, and writes a JSON report.

Each range flag takes comma-separated values:

  stratsweep search --data data/btc_1h.csv --symbol BTC/USDT --timeframe 1h \
    --start 2024-01-01 --end 2024-12-31 --split 2024-09-01 \
    --strategy sma_cross --fast 5,10,20 --slow 40,80,120 --out report.json`,
	RunE: runSearch,
}

var (
	swDataPath  string
	swSymbol    string
	swTimeframe string
	swStart     string
	swEnd       string
	swSplit     string
	swTopN      int
	swStrategy  string
	swOut       string

	swFast    string
	swSlow    string
	swBBWin   string
	swBBStd   string
	swATRWin  string
	swATRMult string
	swADXWin  string
	swADXThr  string
	swMACD    string
	swMaxHold string
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&swDataPath, "data", "", "path to OHLCV CSV file (required)")
	searchCmd.Flags().StringVar(&swSymbol, "symbol", "", "instrument symbol (required)")
	searchCmd.Flags().StringVar(&swTimeframe, "timeframe", "1h", "bar timeframe (1m..1w)")
	searchCmd.Flags().StringVar(&swStart, "start", "", "window start, YYYY-MM-DD (required)")
	searchCmd.Flags().StringVar(&swEnd, "end", "", "window end, YYYY-MM-DD (required)")
	searchCmd.Flags().StringVar(&swSplit, "split", "", "in/out-of-sample split date (enables walk-forward)")
	searchCmd.Flags().IntVar(&swTopN, "top-n", 5, "in-sample survivors re-run out-of-sample")
	searchCmd.Flags().StringVarP(&swStrategy, "strategy", "s", "sma_cross", "strategy kind (sma_cross, volatility_adjusted, bollinger_band)")
	searchCmd.Flags().StringVarP(&swOut, "out", "o", "optimization_report.json", "report output path")

	searchCmd.Flags().StringVar(&swFast, "fast", "", "fast window range, e.g. 5,10,20")
	searchCmd.Flags().StringVar(&swSlow, "slow", "", "slow window range")
	searchCmd.Flags().StringVar(&swBBWin, "bb-window", "", "bollinger window range")
	searchCmd.Flags().StringVar(&swBBStd, "bb-std", "", "bollinger std-dev range")
	searchCmd.Flags().StringVar(&swATRWin, "atr-window", "", "ATR window range")
	searchCmd.Flags().StringVar(&swATRMult, "atr-mult", "", "ATR multiplier range")
	searchCmd.Flags().StringVar(&swADXWin, "adx-window", "", "ADX regime-filter window range")
	searchCmd.Flags().StringVar(&swADXThr, "adx-threshold", "", "ADX regime-filter threshold range")
	searchCmd.Flags().StringVar(&swMACD, "macd-fast", "", "MACD momentum-filter fast period range")
	searchCmd.Flags().StringVar(&swMaxHold, "max-hold", "", "max hold hours range")

	searchCmd.MarkFlagRequired("data")
	searchCmd.MarkFlagRequired("symbol")
	searchCmd.MarkFlagRequired("start")
	searchCmd.MarkFlagRequired("end")
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	kind, err := strategies.ParseKind(swStrategy)
	if err != nil {
		return err
	}
	ranges, err := parseRangeFlags()
	if err != nil {
		return err
	}
	start, end, split, err := parseWindowFlags()
	if err != nil {
		return err
	}

	combos, err := ranges.Combinations(kind)
	if err != nil {
		return err
	}

	opt := optimize.New(&market.CSVSource{Path: swDataPath}, log)
	if err := opt.Load(context.Background(), swSymbol, swTimeframe, start, end); err != nil {
		return err
	}
	results, err := opt.Search(kind, ranges, split, swTopN)
	if err != nil {
		return err
	}

	walkForward := !split.IsZero()
	if walkForward {
		results = optimize.Rank(results)
	}

	rep := optimize.Report{
		Metadata: optimize.Metadata{
			RunID:        id.WithPrefix("sweep"),
			Symbol:       swSymbol,
			Timeframe:    swTimeframe,
			Strategy:     kind.String(),
			Start:        start,
			End:          end,
			Combinations: len(combos),
			GeneratedAt:  time.Now().UTC(),
		},
		Results: results,
	}
	if walkForward {
		rep.Metadata.Split = &split
	}
	if err := optimize.WriteReport(swOut, rep); err != nil {
		return err
	}
	log.Info().Str("path", swOut).Int("results", len(results)).Msg("report written")

	printResults(results, walkForward)
	if walkForward {
		if best, ok := optimize.Recommend(results); ok {
			printRecommendation(best)
		} else {
			fmt.Println("\nNo configuration earned a positive robustness factor.")
		}
	}
	return nil
}

func parseRangeFlags() (optimize.Ranges, error) {
	var r optimize.Ranges
	var err error

	intFlags := []struct {
		dst *[]int
		val string
	}{
		{&r.Fast, swFast}, {&r.Slow, swSlow}, {&r.BBWindow, swBBWin},
		{&r.ATRWindow, swATRWin}, {&r.ADXWindow, swADXWin},
		{&r.MACDFast, swMACD}, {&r.MaxHoldHours, swMaxHold},
	}
	for _, f := range intFlags {
		if *f.dst, err = optimize.ParseIntRange(f.val); err != nil {
			return optimize.Ranges{}, err
		}
	}

	floatFlags := []struct {
		dst *[]float64
		val string
	}{
		{&r.BBStdDev, swBBStd}, {&r.ATRMultiplier, swATRMult}, {&r.ADXThreshold, swADXThr},
	}
	for _, f := range floatFlags {
		if *f.dst, err = optimize.ParseFloatRange(f.val); err != nil {
			return optimize.Ranges{}, err
		}
	}
	return r, nil
}

func parseWindowFlags() (start, end, split time.Time, err error) {
	if start, err = parseDate(swStart); err != nil {
		return
	}
	if end, err = parseDate(swEnd); err != nil {
		return
	}
	if swSplit != "" {
		split, err = parseDate(swSplit)
	}
	return
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, perr := time.ParseInLocation(layout, s, time.UTC); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, market.Configf("unrecognized date %q (want YYYY-MM-DD or RFC3339)", s)
}
