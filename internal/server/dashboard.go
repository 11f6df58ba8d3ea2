package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/content"
	"StockAnalyzer/internal/format"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/news"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/dashboard.html"))

type rowView struct {
	Date   string
	Close  string
	Change string
}

type compareRow struct {
	Label  string
	Return string
	Vol    string
	Ratio  string
	Error  string
}

type newsView struct {
	Title            string
	URL              string
	Summary          string
	Published        string
	TitleSentiment   string
	TitleLabel       string
	SummarySentiment string
	SummaryLabel     string
}

type statementRow struct {
	Field  string
	Values []string
}

type statementView struct {
	Title string
	Years []string
	Rows  []statementRow
	Error string
}

type dashboardView struct {
	Query     query
	Error     string
	Symbol    string
	LastClose string

	AnnualReturn string
	StdDev       string
	RiskAdjusted string
	StatsNote    string
	Change       string
	High         string
	Low          string
	Position     string
	Rows         []rowView
	MAWindows    []int

	PriceChartURL   string
	VolumeChartURL  string
	CompareChartURL string
	Comparison      []compareRow
	CompareError    string

	NewsEnabled bool
	News        []newsView
	NewsError   string

	FundamentalsEnabled bool
	Statements          []statementView

	Tips   []string
	Videos []content.Video
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	view := &dashboardView{
		Query:               q,
		NewsEnabled:         s.news != nil,
		FundamentalsEnabled: s.statements != nil,
		Tips:                content.Sample(content.Tips(), s.opts.TipsCount, s.tipsSeed),
		Videos:              content.Videos(),
	}
	if err != nil {
		view.Error = err.Error()
		s.render(w, http.StatusBadRequest, view)
		return
	}
	view.PriceChartURL, view.VolumeChartURL, view.CompareChartURL = chartURLs(q)

	// every section fails on its own; none of these goroutines returns an error
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s.fillAnalysis(ctx, q, view)
		return nil
	})
	if len(q.Compare) > 0 {
		g.Go(func() error {
			s.fillComparison(ctx, q, view)
			return nil
		})
	}
	if s.news != nil {
		g.Go(func() error {
			s.fillNews(ctx, q, view)
			return nil
		})
	}
	if s.statements != nil {
		view.Statements = make([]statementView, len(statementKinds))
		for i, kind := range statementKinds {
			g.Go(func() error {
				view.Statements[i] = s.loadStatement(ctx, kind, q.Ticker)
				return nil
			})
		}
	}
	_ = g.Wait()

	s.render(w, http.StatusOK, view)
}

func (s *Server) render(w http.ResponseWriter, status int, view *dashboardView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := dashboardTmpl.Execute(w, view); err != nil {
		log.Errorf("render dashboard: %v", err)
	}
}

func chartURLs(q query) (price, volume, compare string) {
	v := url.Values{}
	v.Set("ticker", q.Ticker)
	v.Set("start", q.RawStart)
	v.Set("end", q.RawEnd)
	v.Set("theme", string(q.Theme))
	volume = "/chart/volume.png?" + v.Encode()
	v.Set("style", string(q.Style))
	price = "/chart/price.png?" + v.Encode()
	v.Del("ticker")
	v.Del("style")
	v.Set("tickers", strings.Join(q.Compare, ","))
	compare = "/chart/compare.png?" + v.Encode()
	return price, volume, compare
}

func (s *Server) fillAnalysis(ctx context.Context, q query, view *dashboardView) {
	a, err := s.collector.Analyze(ctx, q.request())
	if err != nil {
		view.Error = err.Error()
		return
	}
	last, _ := a.Series.Last()
	view.Symbol = a.Series.Symbol
	view.LastClose = format.Ratio(last.AdjustedClose)
	view.Change = format.Percent(a.CumulativeReturn)
	view.High, view.Low = format.Ratio(a.High), format.Ratio(a.Low)
	view.Position = format.Percent(a.RangePosition)

	view.AnnualReturn, view.StdDev, view.RiskAdjusted = format.NA, format.NA, format.NA
	if a.StatsErr == nil || a.Stats.Periods > 0 {
		view.AnnualReturn = format.Percent(a.Stats.AnnualizedReturn)
		view.StdDev = format.Percent(a.Stats.AnnualizedVolatility)
		view.RiskAdjusted = format.Ratio(a.Stats.RiskAdjustedReturn)
	}
	view.StatsNote = calculator.Explain(a.StatsErr)

	view.Rows = make([]rowView, len(a.Returns))
	for i, row := range a.Returns {
		view.Rows[i] = rowView{
			Date:   row.Date.Format(dateLayout),
			Close:  format.Ratio(row.AdjustedClose),
			Change: format.Percent(row.Change),
		}
	}
	for w := range a.MovingAverages {
		view.MAWindows = append(view.MAWindows, w)
	}
	sort.Ints(view.MAWindows)
}

func (s *Server) fillComparison(ctx context.Context, q query, view *dashboardView) {
	results, err := s.collector.Compare(ctx, q.Compare, q.Start, q.End)
	if err != nil {
		view.CompareError = err.Error()
		return
	}
	for label, res := range results {
		row := compareRow{Label: label, Return: format.NA, Vol: format.NA, Ratio: format.NA}
		if res.Err == nil || res.Record.Periods > 0 {
			row.Return = format.Percent(res.Record.AnnualizedReturn)
			row.Vol = format.Percent(res.Record.AnnualizedVolatility)
			row.Ratio = format.Ratio(res.Record.RiskAdjustedReturn)
		}
		row.Error = calculator.Explain(res.Err)
		view.Comparison = append(view.Comparison, row)
	}
	sort.Slice(view.Comparison, func(i, j int) bool { return view.Comparison[i].Label < view.Comparison[j].Label })
}

func (s *Server) fillNews(ctx context.Context, q query, view *dashboardView) {
	articles, err := s.news.Headlines(ctx, q.Ticker, s.opts.NewsLimit)
	if err != nil {
		log.Warnf("news for %s: %v", q.Ticker, err)
		view.NewsError = err.Error()
		return
	}
	now := s.now()
	for _, a := range articles {
		view.News = append(view.News, newsView{
			Title:            a.Title,
			URL:              a.URL,
			Summary:          a.Summary,
			Published:        news.Age(a.PublishedAt, now),
			TitleSentiment:   format.Ratio(a.TitleSentiment),
			TitleLabel:       news.Label(a.TitleSentiment),
			SummarySentiment: format.Ratio(a.SummarySentiment),
			SummaryLabel:     news.Label(a.SummarySentiment),
		})
	}
}

var statementKinds = []model.StatementKind{model.BalanceSheet, model.IncomeStatement, model.CashFlow}

var statementTitles = map[model.StatementKind]string{
	model.BalanceSheet:    "Balance Sheet",
	model.IncomeStatement: "Income Statement",
	model.CashFlow:        "Cash Flow Statement",
}

func (s *Server) loadStatement(ctx context.Context, kind model.StatementKind, ticker string) statementView {
	view := statementView{Title: statementTitles[kind]}
	st, err := s.statements.FetchStatement(ctx, kind, ticker)
	if err != nil {
		log.Warnf("fundamentals %s for %s: %v", kind, ticker, err)
		view.Error = err.Error()
		return view
	}
	for _, rep := range st.Reports {
		view.Years = append(view.Years, rep["fiscalDateEnding"])
	}
	for _, field := range st.Fields {
		if field == "fiscalDateEnding" {
			continue
		}
		row := statementRow{Field: field, Values: make([]string, len(st.Reports))}
		for i, rep := range st.Reports {
			row.Values[i] = format.Compact(rep[field])
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
