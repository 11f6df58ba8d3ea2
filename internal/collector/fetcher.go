package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockAnalyzer/internal/model"
)

// Fetcher defines the interface for fetching market data.
//
// Returned series are sorted ascending by date with duplicates removed, which
// is the precondition the calculator relies on.
type Fetcher interface {
	FetchSeries(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}

// StatementFetcher fetches annual financial statements.
type StatementFetcher interface {
	FetchStatement(ctx context.Context, kind model.StatementKind, ticker string) (*model.Statement, error)
}

// NewHTTPClient returns a client with a timeout and optional proxy.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// normalizePoints sorts by date and keeps the last observation of each day.
func normalizePoints(points []model.PricePoint) []model.PricePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
