package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher and StatementFetcher using the
// Alpha Vantage REST API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string, timeout time.Duration) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: alphaVantageBaseURL,
		APIKey:  apiKey,
		Client:  NewHTTPClient(proxyURL, timeout),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avBar is one entry of "Time Series (Daily)".
type avBar struct {
	Close         string `json:"4. close"`
	AdjustedClose string `json:"5. adjusted close"`
	Volume        string `json:"6. volume"`
}

// avStatus carries the fields Alpha Vantage uses to report failures with a 200.
type avStatus struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (s avStatus) err() error {
	switch {
	case s.ErrorMessage != "":
		return fmt.Errorf("alphavantage api error: %s", s.ErrorMessage)
	case s.Note != "":
		return fmt.Errorf("alphavantage rate limited: %s", s.Note)
	case s.Information != "":
		return fmt.Errorf("alphavantage: %s", s.Information)
	}
	return nil
}

// FetchSeries downloads the full daily adjusted history and keeps [start, end].
func (f *AlphaVantageFetcher) FetchSeries(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	body, err := f.query(ctx, "TIME_SERIES_DAILY_ADJUSTED", ticker, url.Values{"outputsize": {"full"}})
	if err != nil {
		return model.PriceSeries{}, err
	}
	var result struct {
		avStatus
		Series map[string]avBar `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode series: %w", err)
	}
	if err := result.err(); err != nil {
		return model.PriceSeries{}, err
	}
	if len(result.Series) == 0 {
		return model.PriceSeries{}, fmt.Errorf("alphavantage: no data returned for %s", ticker)
	}

	from, to := dayStart(start), dayStart(end)
	points := make([]model.PricePoint, 0, len(result.Series))
	for day, bar := range result.Series {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("parse date %q: %w", day, err)
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		price, err := strconv.ParseFloat(bar.AdjustedClose, 64)
		if err != nil || price == 0 {
			if price, err = strconv.ParseFloat(bar.Close, 64); err != nil {
				return model.PriceSeries{}, fmt.Errorf("parse close on %s: %w", day, err)
			}
		}
		vol, _ := strconv.ParseInt(bar.Volume, 10, 64)
		points = append(points, model.PricePoint{Date: d, AdjustedClose: price, Volume: vol})
	}

	return model.PriceSeries{
		Symbol:    strings.ToUpper(ticker),
		Points:    normalizePoints(points),
		FetchedAt: time.Now(),
	}, nil
}

// FetchStatement returns the annual reports of one financial statement.
func (f *AlphaVantageFetcher) FetchStatement(ctx context.Context, kind model.StatementKind, ticker string) (*model.Statement, error) {
	switch kind {
	case model.BalanceSheet, model.IncomeStatement, model.CashFlow:
	default:
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}
	body, err := f.query(ctx, string(kind), ticker, nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		avStatus
		Symbol        string              `json:"symbol"`
		AnnualReports []map[string]string `json:"annualReports"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	if err := result.err(); err != nil {
		return nil, err
	}
	if len(result.AnnualReports) == 0 {
		return nil, fmt.Errorf("alphavantage: no %s reports for %s", kind, ticker)
	}

	sort.Slice(result.AnnualReports, func(i, j int) bool {
		return result.AnnualReports[i]["fiscalDateEnding"] > result.AnnualReports[j]["fiscalDateEnding"]
	})
	return &model.Statement{
		Symbol:  strings.ToUpper(ticker),
		Kind:    kind,
		Fields:  statementFields(result.AnnualReports),
		Reports: result.AnnualReports,
	}, nil
}

// statementFields lists every field once, date and currency first.
func statementFields(reports []map[string]string) []string {
	seen := map[string]bool{"fiscalDateEnding": true, "reportedCurrency": true}
	var rest []string
	for _, r := range reports {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append([]string{"fiscalDateEnding", "reportedCurrency"}, rest...)
}

func (f *AlphaVantageFetcher) query(ctx context.Context, function, ticker string, extra url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("function", function)
	q.Set("symbol", strings.ToUpper(ticker))
	q.Set("apikey", f.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage %s: %w", function, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage %s: status %d, body: %s", function, resp.StatusCode, preview(body))
	}
	return body, nil
}
