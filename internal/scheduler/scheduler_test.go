package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/model"
)

type fakeNotifier struct {
	mu       sync.Mutex
	texts    []string
	photos   [][]byte
	captions []string
	photoErr error
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeNotifier) SendPhoto(_ string, png []byte, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photoErr != nil {
		return f.photoErr
	}
	f.photos = append(f.photos, png)
	f.captions = append(f.captions, caption)
	return nil
}

func newTestScheduler(t *testing.T, mock *collector.MockFetcher, n *fakeNotifier) *Scheduler {
	t.Helper()
	col := collector.NewCollector(mock, 252, []int{20})
	s := NewScheduler(context.Background(), col, n, []string{"AAPL", "MSFT"}, 30, 3)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestHandleCommand_Stats(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{Price: 150}, &fakeNotifier{})
	reply := s.HandleCommand(context.Background(), "/stats aapl")
	if !strings.Contains(reply, "<b>AAPL</b>") || !strings.Contains(reply, "Annual Return") {
		t.Errorf("unexpected reply:\n%s", reply)
	}
	if reply := s.HandleCommand(context.Background(), "/stats"); !strings.HasPrefix(reply, "Usage") {
		t.Errorf("expected usage, got %q", reply)
	}
}

func TestHandleCommand_StatsFetchError(t *testing.T) {
	mock := &collector.MockFetcher{Errors: map[string]error{"ZZZZ": errors.New("not found")}}
	s := newTestScheduler(t, mock, &fakeNotifier{})
	reply := s.HandleCommand(context.Background(), "/stats@StockBot ZZZZ")
	if !strings.HasPrefix(reply, "❌") || !strings.Contains(reply, "not found") {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestHandleCommand_ErrorIsEscaped(t *testing.T) {
	mock := &collector.MockFetcher{Errors: map[string]error{
		"ZZZZ": errors.New(`unexpected status 502: <html><body>Bad Gateway</body></html>`),
	}}
	s := newTestScheduler(t, mock, &fakeNotifier{})
	reply := s.HandleCommand(context.Background(), "/stats ZZZZ")
	if strings.Contains(reply, "<html>") || strings.Contains(reply, "<body>") {
		t.Errorf("raw markup leaked into reply %q", reply)
	}
	if !strings.Contains(reply, "&lt;html&gt;") {
		t.Errorf("expected escaped body preview, got %q", reply)
	}
}

func TestHandleCommand_Compare(t *testing.T) {
	mock := &collector.MockFetcher{
		Price:  100,
		Errors: map[string]error{"BAD": errors.New("unavailable")},
	}
	s := newTestScheduler(t, mock, &fakeNotifier{})
	reply := s.HandleCommand(context.Background(), "/compare SPY BAD")
	if !strings.Contains(reply, "<b>SPY</b>: return") || !strings.Contains(reply, "unavailable") {
		t.Errorf("unexpected reply:\n%s", reply)
	}
	if reply := s.HandleCommand(context.Background(), "/compare SPY"); !strings.HasPrefix(reply, "Usage") {
		t.Errorf("expected usage, got %q", reply)
	}
}

func TestHandleCommand_TipsAndHelp(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{Price: 100}, &fakeNotifier{})
	if reply := s.HandleCommand(context.Background(), "/tips"); strings.Count(reply, "• ") != 3 {
		t.Errorf("expected 3 tips, got:\n%s", reply)
	}
	if reply := s.HandleCommand(context.Background(), "hello"); !strings.Contains(reply, "/stats TICKER") {
		t.Errorf("expected help, got:\n%s", reply)
	}
	if reply := s.HandleCommand(context.Background(), "   "); reply != "" {
		t.Errorf("expected no reply for blank input, got %q", reply)
	}
}

func TestRunDigestNow(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(t, &collector.MockFetcher{Price: 100}, n)
	s.RunDigestNow()
	if len(n.photos) != 1 {
		t.Fatalf("expected one chart, got %d photos and %d texts", len(n.photos), len(n.texts))
	}
	if !bytes.HasPrefix(n.photos[0], []byte("\x89PNG")) {
		t.Error("digest chart is not a PNG")
	}
	if !strings.Contains(n.captions[0], "AAPL") || !strings.Contains(n.captions[0], "MSFT") {
		t.Errorf("caption missing tickers:\n%s", n.captions[0])
	}
}

func TestRunDigestNow_PhotoFailureFallsBackToText(t *testing.T) {
	n := &fakeNotifier{photoErr: errors.New("too large")}
	s := newTestScheduler(t, &collector.MockFetcher{Price: 100}, n)
	s.RunDigestNow()
	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "Comparison") {
		t.Errorf("expected text fallback, got %v", n.texts)
	}
}

func TestRunDigestNow_AllFailed(t *testing.T) {
	n := &fakeNotifier{}
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{}}
	s := newTestScheduler(t, mock, n)
	s.RunDigestNow()
	// no chart can be drawn; the failures still go out as text
	if len(n.photos) != 0 || len(n.texts) != 1 {
		t.Fatalf("expected text only, got %d photos, %d texts", len(n.photos), len(n.texts))
	}
	if !strings.Contains(n.texts[0], "AAPL") {
		t.Errorf("unexpected digest:\n%s", n.texts[0])
	}
}

func TestRegisterAll_InvalidCron(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{Price: 100}, &fakeNotifier{})
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if err := s.RegisterAll("0 30 22 * * 1-5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
