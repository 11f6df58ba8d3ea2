package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/content"
	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/notifier"
)

var log = logger.With("scheduler")

// Notifier delivers digests and command replies.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhoto(name string, png []byte, caption string) error
}

// Scheduler runs the watchlist digest and answers bot commands.
type Scheduler struct {
	Cron         *cron.Cron
	Collector    *collector.Collector
	Notifier     Notifier
	Watchlist    []string
	LookbackDays int
	TipsCount    int
	Ctx          context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, watchlist []string, lookbackDays, tipsCount int) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Collector:    col,
		Notifier:     n,
		Watchlist:    watchlist,
		LookbackDays: lookbackDays,
		TipsCount:    tipsCount,
		Ctx:          ctx,
		now:          time.Now,
	}
}

// RegisterAll registers the watchlist digest.
func (s *Scheduler) RegisterAll(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunDigestNow executes the digest immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) window() (start, end time.Time) {
	end = s.now()
	return end.AddDate(0, 0, -s.LookbackDays), end
}

func (s *Scheduler) digestTask() {
	log.Infof("running digest for %v", s.Watchlist)
	start, end := s.window()
	series, results, err := s.Collector.CompareWithSeries(s.Ctx, s.Watchlist, start, end)
	if err != nil {
		log.Errorf("digest compare: %v", err)
		s.trySend("❌ Digest failed: " + html.EscapeString(err.Error()))
		return
	}
	report := notifier.FormatComparison(results, end)

	png, err := chart.ComparisonChart(series, chart.ThemeLight)
	if err != nil {
		log.Warnf("digest chart: %v", err)
		s.trySend(report)
		return
	}
	if err := s.Notifier.SendPhoto("digest.png", png, report); err != nil {
		log.Warnf("send digest chart failed, falling back to text: %v", err)
		s.trySend(report)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/stats":
		if len(args) != 1 {
			return "Usage: /stats TICKER"
		}
		start, end := s.window()
		a, err := s.Collector.Analyze(ctx, collector.Request{Ticker: args[0], Start: start, End: end})
		if err != nil {
			return failure(err)
		}
		return notifier.FormatStatistics(a)
	case "/compare":
		if len(args) < 2 {
			return "Usage: /compare TICKER TICKER [...]"
		}
		start, end := s.window()
		results, err := s.Collector.Compare(ctx, args, start, end)
		if err != nil {
			return failure(err)
		}
		return notifier.FormatComparison(results, end)
	case "/tips":
		return notifier.FormatTips(content.Sample(content.Tips(), s.TipsCount, uint64(s.now().UnixNano())))
	case "/digest":
		go s.digestTask()
		return ""
	default:
		return "Available commands:\n" +
			"• /stats TICKER\n" +
			"• /compare TICKER TICKER ...\n" +
			"• /tips\n" +
			"• /digest"
	}
}

// failure renders err for an HTML parse-mode reply.
func failure(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Errorf("send notification: %v", err)
	}
}
