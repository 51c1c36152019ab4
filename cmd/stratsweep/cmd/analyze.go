package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stratsweep/optimize"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.json>",
	Short: "Re-rank a saved optimization report by robustness",
	Long: `Analyze reads a report written by the search command, recomputes the
robustness ranking, and prints the ranked table plus a recommended
configuration ready to paste into a backtest config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rep, err := optimize.LoadReport(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Report: %s %s %s, %d results\n",
		rep.Metadata.Symbol, rep.Metadata.Timeframe, rep.Metadata.Strategy, len(rep.Results))
	if rep.Metadata.Split != nil {
		fmt.Printf("Walk-forward split: %s\n", rep.Metadata.Split.Format("2006-01-02"))
	}

	ranked := optimize.Rank(rep.Results)
	printResults(ranked, rep.Metadata.Split != nil)

	if best, ok := optimize.Recommend(ranked); ok {
		printRecommendation(best)
	} else {
		fmt.Println("\nNo configuration earned a positive robustness factor.")
	}
	return nil
}

func printResults(results []optimize.Result, walkForward bool) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	if walkForward {
		fmt.Fprintln(w, "#\tconfig\tIS sharpe\tIS return\tOOS sharpe\tOOS return\tdegradation\trobustness")
	} else {
		fmt.Fprintln(w, "#\tconfig\tsharpe\treturn\tmax dd")
	}

	for i, r := range results {
		if walkForward {
			oosSharpe, oosReturn := "-", "-"
			if r.OutSample != nil {
				oosSharpe = fmt.Sprintf("%.3f", r.OutSample.SharpeRatio)
				oosReturn = fmt.Sprintf("%.2f%%", r.OutSample.TotalReturn*100)
			}
			fmt.Fprintf(w, "%d\t%s\t%.3f\t%.2f%%\t%s\t%s\t%.3f\t%.4f\n",
				i+1, describeConfig(r.Config),
				r.InSample.SharpeRatio, r.InSample.TotalReturn*100,
				oosSharpe, oosReturn, r.DegradationRatio, r.RobustnessFactor)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%.3f\t%.2f%%\t%.2f%%\n",
				i+1, describeConfig(r.Config),
				r.InSample.SharpeRatio, r.InSample.TotalReturn*100, r.InSample.MaxDrawdown*100)
		}
	}
	w.Flush()
}

func printRecommendation(best optimize.Result) {
	fmt.Printf("\nRecommended configuration (robustness %.4f):\n", best.RobustnessFactor)
	c := best.Config
	if c.BBWindow > 0 {
		fmt.Printf("  bb_window: %d\n  bb_std_dev: %g\n", c.BBWindow, c.BBStdDev)
	} else {
		fmt.Printf("  fast_window: %d\n  slow_window: %d\n", c.FastWindow, c.SlowWindow)
	}
	if c.ATRWindow > 0 {
		fmt.Printf("  atr_window: %d\n  atr_multiplier: %g\n", c.ATRWindow, c.ATRMultiplier)
	}
	if c.ADXWindow > 0 {
		fmt.Printf("  adx_window: %d\n  adx_threshold: %g\n", c.ADXWindow, c.ADXThreshold)
	}
	if c.MACDFast > 0 {
		fmt.Printf("  macd_fast: %d\n", c.MACDFast)
	}
	if c.MaxHoldHours > 0 {
		fmt.Printf("  max_hold_hours: %d\n", c.MaxHoldHours)
	}
}

func describeConfig(c optimize.Config) string {
	s := ""
	if c.BBWindow > 0 {
		s = fmt.Sprintf("bb=%d/%g", c.BBWindow, c.BBStdDev)
	} else {
		s = fmt.Sprintf("ma=%d/%d", c.FastWindow, c.SlowWindow)
	}
	if c.ATRWindow > 0 {
		s += fmt.Sprintf(" atr=%d/%g", c.ATRWindow, c.ATRMultiplier)
	}
	if c.ADXWindow > 0 {
		s += fmt.Sprintf(" adx=%d/%g", c.ADXWindow, c.ADXThreshold)
	}
	if c.MACDFast > 0 {
		s += fmt.Sprintf(" macd=%d", c.MACDFast)
	}
	if c.MaxHoldHours > 0 {
		s += fmt.Sprintf(" hold=%dh", c.MaxHoldHours)
	}
	return s
}
