package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/news"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/scheduler"
	"StockAnalyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard, plus the Telegram bot and digest when configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.With("main")
		log.Info("StockAnalyzer starting...")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		col, statements := newCollector(cfg)
		timeout := time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second
		reader := news.NewReader(collector.NewHTTPClient(cfg.DataSource.Proxy, timeout))

		if cfg.TelegramEnabled() {
			tn, err := notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
			if err != nil {
				log.Warnf("telegram disabled: %v", err)
			} else {
				sched := scheduler.NewScheduler(ctx, col, tn, cfg.Schedule.Watchlist,
					cfg.Analysis.DefaultLookbackDays, cfg.Analysis.TipsCount)
				if err := sched.RegisterAll(cfg.Schedule.DigestCron); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()

				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info("Telegram polling started")

				if os.Getenv("RUN_ON_START") == "true" {
					log.Info("RUN_ON_START enabled, executing digest now")
					go sched.RunDigestNow()
				}
			}
		}

		srv := server.New(col, statements, reader, server.Options{
			CORSOrigins:    cfg.Server.CORSOrigins,
			DefaultTicker:  cfg.Analysis.DefaultTicker,
			LookbackDays:   cfg.Analysis.DefaultLookbackDays,
			CompareTickers: cfg.Analysis.CompareTickers,
			NewsLimit:      cfg.Analysis.NewsLimit,
			TipsCount:      cfg.Analysis.TipsCount,
		})
		if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
			return err
		}
		log.Info("StockAnalyzer stopped")
		return nil
	},
}
