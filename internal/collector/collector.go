package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/model"
)

var log = logger.With("collector")

// ErrBadRequest reports an unusable ticker or date range.
var ErrBadRequest = errors.New("bad request")

// maxConcurrentFetches bounds parallel requests to the market-data provider.
const maxConcurrentFetches = 4

// Request selects a ticker and an inclusive date range.
type Request struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// Normalize trims and upper-cases the ticker and checks the date range.
func (r Request) Normalize() (Request, error) {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if r.Ticker == "" {
		return r, fmt.Errorf("%w: ticker is required", ErrBadRequest)
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return r, fmt.Errorf("%w: start and end dates are required", ErrBadRequest)
	}
	if !r.Start.Before(r.End) {
		return r, fmt.Errorf("%w: start %s must be before end %s", ErrBadRequest,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return r, nil
}

// Collector orchestrates data fetching and statistics computation.
type Collector struct {
	Fetcher        Fetcher
	PeriodsPerYear int
	MAWindows      []int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, periodsPerYear int, maWindows []int) *Collector {
	return &Collector{Fetcher: fetcher, PeriodsPerYear: periodsPerYear, MAWindows: maWindows}
}

// Analyze fetches one series and computes everything the dashboard shows.
// A statistics failure (too few points, zero volatility) is kept in
// Analysis.StatsErr rather than returned, so the chart and table still render.
func (c *Collector) Analyze(ctx context.Context, req Request) (*model.Analysis, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	series, err := c.Fetcher.FetchSeries(ctx, req.Ticker, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Ticker, err)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("fetch %s: %w", req.Ticker, calculator.ErrInsufficientData)
	}

	a := &model.Analysis{
		Series:         series,
		MovingAverages: make(map[int][]model.MAPoint, len(c.MAWindows)),
		PeriodsPerYear: c.PeriodsPerYear,
	}

	if a.Returns, err = calculator.ReturnTable(series); err != nil {
		return nil, fmt.Errorf("returns %s: %w", req.Ticker, err)
	}

	a.Stats, a.StatsErr = calculator.ComputeStatistics(series, c.PeriodsPerYear)
	if a.StatsErr != nil {
		log.Warnf("statistics for %s: %v", req.Ticker, a.StatsErr)
	}

	for _, w := range c.MAWindows {
		ma, err := calculator.MovingAverage(series, w)
		if err != nil {
			log.Warnf("MA%d calculation failed: %v", w, err)
			continue
		}
		a.MovingAverages[w] = ma
	}

	if h, l, err := calculator.PeriodRange(series); err != nil {
		log.Warnf("range calculation failed: %v", err)
	} else {
		a.High, a.Low = h, l
		last, _ := series.Last()
		if pos, err := calculator.RangePosition(last.AdjustedClose, h, l); err == nil {
			a.RangePosition = pos
		}
	}

	if cr, err := calculator.CumulativeReturn(series); err == nil {
		a.CumulativeReturn = cr
	}

	return a, nil
}

// FetchAll downloads every ticker concurrently. A ticker whose fetch fails is
// reported in the returned error map and left out of the series map.
func (c *Collector) FetchAll(ctx context.Context, tickers []string, start, end time.Time) (map[string]model.PriceSeries, map[string]error, error) {
	series := make(map[string]model.PriceSeries, len(tickers))
	failed := make(map[string]error)
	var mu sync.Mutex

	reqs := make([]Request, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, raw := range tickers {
		req, err := Request{Ticker: raw, Start: start, End: end}.Normalize()
		if err != nil {
			return nil, nil, err
		}
		if seen[req.Ticker] {
			continue
		}
		seen[req.Ticker] = true
		reqs = append(reqs, req)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, req := range reqs {
		g.Go(func() error {
			s, err := c.Fetcher.FetchSeries(gctx, req.Ticker, req.Start, req.End)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnf("fetch %s failed: %v", req.Ticker, err)
				delete(series, req.Ticker)
				failed[req.Ticker] = fmt.Errorf("fetch %s: %w", req.Ticker, err)
				return nil // non-fatal
			}
			series[req.Ticker] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return series, failed, nil
}

// Compare fetches every ticker and computes statistics for each. Fetch and
// statistics failures are isolated per ticker.
func (c *Collector) Compare(ctx context.Context, tickers []string, start, end time.Time) (map[string]model.ComparisonResult, error) {
	_, results, err := c.CompareWithSeries(ctx, tickers, start, end)
	return results, err
}

// CompareWithSeries is Compare that also returns the fetched series, for
// callers that chart them.
func (c *Collector) CompareWithSeries(ctx context.Context, tickers []string, start, end time.Time) (map[string]model.PriceSeries, map[string]model.ComparisonResult, error) {
	if len(tickers) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one ticker is required", ErrBadRequest)
	}
	series, failed, err := c.FetchAll(ctx, tickers, start, end)
	if err != nil {
		return nil, nil, err
	}
	results := calculator.CompareSeries(series, c.PeriodsPerYear)
	for label, ferr := range failed {
		results[label] = model.ComparisonResult{Err: ferr}
	}
	return series, results, nil
}
