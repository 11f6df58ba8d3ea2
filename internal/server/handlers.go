package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/format"
	"StockAnalyzer/internal/model"
)

const dateLayout = "2006-01-02"

// query holds the parameters shared by the dashboard, charts and API.
type query struct {
	Ticker   string
	Start    time.Time
	End      time.Time
	Style    chart.Style
	Theme    chart.Theme
	Compare  []string
	RawStart string
	RawEnd   string
}

func (s *Server) parseQuery(r *http.Request) (query, error) {
	v := r.URL.Query()
	q := query{
		Ticker: strings.ToUpper(strings.TrimSpace(v.Get("ticker"))),
		Style:  chart.ParseStyle(v.Get("style")),
		Theme:  chart.ParseTheme(v.Get("theme")),
	}
	if q.Ticker == "" {
		q.Ticker = s.opts.DefaultTicker
	}
	if raw := v.Get("tickers"); raw != "" {
		q.Compare = splitTickers(raw)
	} else if raw, ok := v["compare"]; ok {
		q.Compare = splitTickers(strings.Join(raw, ","))
	} else {
		q.Compare = s.opts.CompareTickers
	}

	now := s.now().UTC()
	q.End = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := v.Get("end"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return q, fmt.Errorf("%w: end date %q is not YYYY-MM-DD", collector.ErrBadRequest, raw)
		}
		q.End = t
	}
	q.Start = q.End.AddDate(0, 0, -s.opts.LookbackDays)
	if raw := v.Get("start"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return q, fmt.Errorf("%w: start date %q is not YYYY-MM-DD", collector.ErrBadRequest, raw)
		}
		q.Start = t
	}
	q.RawStart, q.RawEnd = q.Start.Format(dateLayout), q.End.Format(dateLayout)
	return q, nil
}

func (q query) request() collector.Request {
	return collector.Request{Ticker: q.Ticker, Start: q.Start, End: q.End}
}

func splitTickers(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, strings.ToUpper(part))
	}
	return out
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrBadRequest), errors.Is(err, calculator.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, calculator.ErrInsufficientData), errors.Is(err, chart.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"fetcher": s.collector.Fetcher.Name(),
		"time":    s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePriceChart(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := s.collector.Analyze(r.Context(), q.request())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	png, err := chart.PriceChart(a.Series, q.Style, q.Theme, a.MovingAverages)
	writePNG(w, png, err)
}

func (s *Server) handleVolumeChart(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, err := q.request().Normalize()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	series, err := s.collector.Fetcher.FetchSeries(r.Context(), req.Ticker, req.Start, req.End)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	png, err := chart.VolumeChart(series, q.Theme)
	writePNG(w, png, err)
}

func (s *Server) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	series, _, err := s.collector.FetchAll(r.Context(), q.Compare, q.Start, q.End)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	png, err := chart.ComparisonChart(series, q.Theme)
	writePNG(w, png, err)
}

func writePNG(w http.ResponseWriter, png []byte, err error) {
	if err != nil {
		log.Warnf("render chart: %v", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// recordJSON is a StatisticsRecord with undefined values as null.
type recordJSON struct {
	AnnualizedReturn     *float64 `json:"annualized_return"`
	AnnualizedVolatility *float64 `json:"annualized_volatility"`
	RiskAdjustedReturn   *float64 `json:"risk_adjusted_return"`
	Periods              int      `json:"periods"`
	Error                string   `json:"error,omitempty"`
}

func newRecordJSON(rec model.StatisticsRecord, err error) recordJSON {
	out := recordJSON{Error: calculator.Explain(err)}
	if err != nil && rec.Periods == 0 {
		return out
	}
	out.AnnualizedReturn = format.Finite(rec.AnnualizedReturn)
	out.AnnualizedVolatility = format.Finite(rec.AnnualizedVolatility)
	out.RiskAdjustedReturn = format.Finite(rec.RiskAdjustedReturn)
	out.Periods = rec.Periods
	return out
}

type returnRowJSON struct {
	Date          string  `json:"date"`
	AdjustedClose float64 `json:"adjusted_close"`
	Change        float64 `json:"change"`
}

type maPointJSON struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type statsResponse struct {
	Symbol           string                   `json:"symbol"`
	Start            string                   `json:"start"`
	End              string                   `json:"end"`
	Points           int                      `json:"points"`
	PeriodsPerYear   int                      `json:"periods_per_year"`
	Statistics       recordJSON               `json:"statistics"`
	CumulativeReturn *float64                 `json:"cumulative_return"`
	High             float64                  `json:"high"`
	Low              float64                  `json:"low"`
	RangePosition    float64                  `json:"range_position"`
	Returns          []returnRowJSON          `json:"returns"`
	MovingAverages   map[string][]maPointJSON `json:"moving_averages"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.collector.Analyze(r.Context(), q.request())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := statsResponse{
		Symbol:         a.Series.Symbol,
		Start:          q.RawStart,
		End:            q.RawEnd,
		Points:         a.Series.Len(),
		PeriodsPerYear: a.PeriodsPerYear,
		Statistics:     newRecordJSON(a.Stats, a.StatsErr),
		High:           a.High,
		Low:            a.Low,
		RangePosition:  a.RangePosition,
		Returns:        make([]returnRowJSON, len(a.Returns)),
		MovingAverages: make(map[string][]maPointJSON, len(a.MovingAverages)),
	}
	if a.Series.Len() >= 2 {
		resp.CumulativeReturn = format.Finite(a.CumulativeReturn)
	}
	for i, row := range a.Returns {
		resp.Returns[i] = returnRowJSON{Date: row.Date.Format(dateLayout), AdjustedClose: row.AdjustedClose, Change: row.Change}
	}
	for win, points := range a.MovingAverages {
		out := make([]maPointJSON, len(points))
		for i, p := range points {
			out[i].Date = p.Date.Format(dateLayout)
			if p.Valid {
				out[i].Value = format.Finite(p.Value)
			}
		}
		resp.MovingAverages[fmt.Sprintf("ma%d", win)] = out
	}
	writeJSON(w, http.StatusOK, resp)
}

type compareResponse struct {
	Start   string                `json:"start"`
	End     string                `json:"end"`
	Results map[string]recordJSON `json:"results"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := s.collector.Compare(r.Context(), q.Compare, q.Start, q.End)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	resp := compareResponse{Start: q.RawStart, End: q.RawEnd, Results: make(map[string]recordJSON, len(results))}
	for label, res := range results {
		resp.Results[label] = newRecordJSON(res.Record, res.Err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
