package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/format"
	"StockAnalyzer/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats TICKER [TICKER...]",
	Short: "Print return and risk statistics for one or more tickers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := statsWindow(cmd)
		if err != nil {
			return err
		}
		col, _ := newCollector(cfg)

		if len(args) == 1 {
			a, err := col.Analyze(cmd.Context(), collector.Request{Ticker: args[0], Start: start, End: end})
			if err != nil {
				return err
			}
			printAnalysis(os.Stdout, a)
			return nil
		}

		results, err := col.Compare(cmd.Context(), args, start, end)
		if err != nil {
			return err
		}
		printComparison(os.Stdout, results)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("start", "", "start date YYYY-MM-DD (default: end minus the configured lookback)")
	statsCmd.Flags().String("end", "", "end date YYYY-MM-DD (default: today)")
}

func statsWindow(cmd *cobra.Command) (start, end time.Time, err error) {
	end = time.Now().UTC().Truncate(24 * time.Hour)
	if raw, _ := cmd.Flags().GetString("end"); raw != "" {
		if end, err = time.Parse("2006-01-02", raw); err != nil {
			return start, end, fmt.Errorf("invalid --end: %w", err)
		}
	}
	start = end.AddDate(0, 0, -cfg.Analysis.DefaultLookbackDays)
	if raw, _ := cmd.Flags().GetString("start"); raw != "" {
		if start, err = time.Parse("2006-01-02", raw); err != nil {
			return start, end, fmt.Errorf("invalid --start: %w", err)
		}
	}
	return start, end, nil
}

func printAnalysis(out io.Writer, a *model.Analysis) {
	first := a.Series.Points[0]
	last, _ := a.Series.Last()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Symbol\t%s\n", a.Series.Symbol)
	fmt.Fprintf(tw, "Period\t%s to %s (%d prices)\n", first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"), a.Series.Len())
	fmt.Fprintf(tw, "Last close\t%s\n", format.Ratio(last.AdjustedClose))
	fmt.Fprintf(tw, "Change\t%s\n", format.Percent(a.CumulativeReturn))
	if a.StatsErr != nil && a.Stats.Periods == 0 {
		fmt.Fprintf(tw, "Statistics\t%s\n", calculator.Explain(a.StatsErr))
	} else {
		fmt.Fprintf(tw, "Annual Return\t%s\n", format.Percent(a.Stats.AnnualizedReturn))
		fmt.Fprintf(tw, "Standard Deviation\t%s\n", format.Percent(a.Stats.AnnualizedVolatility))
		fmt.Fprintf(tw, "Risk Adjusted Return\t%s\n", format.Ratio(a.Stats.RiskAdjustedReturn))
		if a.StatsErr != nil {
			fmt.Fprintf(tw, "Note\t%s\n", calculator.Explain(a.StatsErr))
		}
	}
	tw.Flush()
}

func printComparison(out io.Writer, results map[string]model.ComparisonResult) {
	labels := make([]string, 0, len(results))
	for l := range results {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tANNUAL RETURN\tSTD DEV\tRISK ADJ\tNOTE")
	for _, l := range labels {
		r := results[l]
		ret, vol, ratio := format.NA, format.NA, format.NA
		if r.Err == nil || r.Record.Periods > 0 {
			ret, vol, ratio = format.Percent(r.Record.AnnualizedReturn), format.Percent(r.Record.AnnualizedVolatility), format.Ratio(r.Record.RiskAdjustedReturn)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l, ret, vol, ratio, calculator.Explain(r.Err))
	}
	tw.Flush()
}
