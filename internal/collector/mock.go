package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockAnalyzer/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Series map[string]model.PriceSeries // per-ticker override
	Errors map[string]error             // per-ticker failure

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	ticker = strings.ToUpper(ticker)
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	m.mu.Unlock()

	if err, ok := m.Errors[ticker]; ok {
		return model.PriceSeries{}, err
	}
	if s, ok := m.Series[ticker]; ok {
		return s, nil
	}
	if m.Price <= 0 {
		return model.PriceSeries{}, fmt.Errorf("mock: no data for %s", ticker)
	}
	return model.PriceSeries{
		Symbol:    ticker,
		Points:    generateMockPoints(m.Price, start, end),
		FetchedAt: time.Now(),
	}, nil
}

// Calls returns the tickers requested so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// generateMockPoints produces one weekday point per day in [start, end],
// oscillating gently around basePrice.
func generateMockPoints(basePrice float64, start, end time.Time) []model.PricePoint {
	var points []model.PricePoint
	i := 0
	for d := dayStart(start); !d.After(dayStart(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		step := float64(i%10 - 5)
		points = append(points, model.PricePoint{
			Date:          d,
			AdjustedClose: basePrice * (1 + step*0.002 + float64(i)*0.0005),
			Volume:        1000000 + int64(i%7)*25000,
		})
		i++
	}
	return points
}
