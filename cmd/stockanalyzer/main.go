// StockAnalyzer: return/risk statistics dashboard for stock tickers.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockanalyzer",
	Short: "Return and risk statistics for stock tickers",
	Long: `StockAnalyzer downloads daily adjusted closes for a ticker and reports
annualized return, volatility and risk-adjusted return, with charts, a
multi-ticker comparison, headlines with sentiment and a Telegram digest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" {
			path = "configs/config.yaml"
		}
		var err error
		if cfg, err = config.Load(path); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger.SetLevel(cfg.Logging.Level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StockAnalyzer %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
	},
}

// newFetchers builds the market-data fetcher and, when an Alpha Vantage key
// is configured, the statement fetcher.
func newFetchers(c *config.Config) (collector.Fetcher, collector.StatementFetcher) {
	timeout := time.Duration(c.DataSource.TimeoutSeconds) * time.Second
	var statements collector.StatementFetcher
	var av *collector.AlphaVantageFetcher
	if c.FundamentalsEnabled() {
		av = collector.NewAlphaVantageFetcher(c.DataSource.AlphaVantageKey, c.DataSource.Proxy, timeout)
		statements = av
	}

	var fetcher collector.Fetcher
	if c.DataSource.Provider == "alphavantage" && av != nil {
		fetcher = av
	} else {
		fetcher = collector.NewYahooFetcher(c.DataSource.Proxy, timeout)
	}
	logger.Log.Infof("data source: %s (fundamentals: %v)", fetcher.Name(), statements != nil)
	return fetcher, statements
}

func newCollector(c *config.Config) (*collector.Collector, collector.StatementFetcher) {
	fetcher, statements := newFetchers(c)
	return collector.NewCollector(fetcher, c.Analysis.PeriodsPerYear, c.Analysis.MAWindows), statements
}
