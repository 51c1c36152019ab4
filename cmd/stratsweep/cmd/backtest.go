package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stratsweep/backtest"
	"stratsweep/config"
	"stratsweep/journal"
	"stratsweep/market"
	"stratsweep/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a single backtest from a config file",
	Long: `Backtest runs one strategy configuration over a historical window and
prints the resulting metrics and trades.

Example:
  stratsweep backtest -c configs/btc_sma.yaml`,
	RunE: runBacktest,
}

var btConfigPath string

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to YAML/JSON config file (required)")
	backtestCmd.MarkFlagRequired("config")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.LoadFromFile(btConfigPath)
	if err != nil {
		return err
	}
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}
	strat, err := strategies.New(kind, cfg.Params(), log)
	if err != nil {
		return err
	}
	start, end, err := cfg.Window()
	if err != nil {
		return err
	}

	engine := backtest.Engine{MaxHold: cfg.MaxHold(), Log: log}

	var j *journal.SQLite
	if cfg.Journal.DBPath != "" {
		j, err = journal.Open(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()

		runID, err := j.StartRun(journal.RunMeta{
			Symbol:    cfg.Data.Symbol,
			Timeframe: cfg.Data.Timeframe,
			Strategy:  kind.String(),
			Config:    cfg.Strategy,
			Start:     start,
			End:       end,
		})
		if err != nil {
			return err
		}
		log.Info().Str("run_id", runID).Str("db", cfg.Journal.DBPath).Msg("journaling trades")
		engine.Sink = j
	}

	barDur, err := market.TimeframeDuration(cfg.Data.Timeframe)
	if err != nil {
		return err
	}
	src := &market.CSVSource{Path: cfg.Data.CSVPath}
	bufferedStart := start.Add(-time.Duration(strat.MaxLookback()) * barDur)
	series, err := src.GetSeries(context.Background(), cfg.Data.Symbol, cfg.Data.Timeframe, bufferedStart, end)
	if err != nil {
		return err
	}

	res, err := engine.Run(series, start, end, strat)
	if err != nil {
		return err
	}

	if j != nil && series.Len() > 0 {
		frame, err := strat.Indicators(series)
		if err == nil {
			if sigs, err := strat.Signals(series, frame); err == nil && len(sigs) > 0 {
				last := series.Bars[series.Len()-1]
				if err := j.RecordSignal(last.Time, sigs[len(sigs)-1], last.Close); err != nil {
					log.Warn().Err(err).Msg("signal journaling failed")
				}
			}
		}
	}

	fmt.Printf("Backtest complete: %s %s %s\n", cfg.Data.Symbol, cfg.Data.Timeframe, kind)
	fmt.Printf("  Window:       %s .. %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("  Trades:       %d\n", len(res.Trades))
	fmt.Printf("  Total return: %.2f%%\n", res.Metrics.TotalReturn*100)
	fmt.Printf("  Sharpe:       %.3f\n", res.Metrics.SharpeRatio)
	fmt.Printf("  Max drawdown: %.2f%%\n", res.Metrics.MaxDrawdown*100)

	for _, t := range res.Trades {
		fmt.Printf("  %-5s %s -> %s  entry %.4f exit %.4f  pnl %+.2f%%  [%s]\n",
			t.Side, t.EntryTime.Format("2006-01-02 15:04"), t.ExitTime.Format("2006-01-02 15:04"),
			t.EntryPrice, t.ExitPrice, t.PnL*100, t.ExitReason)
	}
	return nil
}
