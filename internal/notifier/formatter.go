package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/format"
	"StockAnalyzer/internal/model"
)

// FormatStatistics formats one ticker's statistics into a Telegram message.
func FormatStatistics(a *model.Analysis) string {
	var b strings.Builder
	last, _ := a.Series.Last()
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(a.Series.Symbol), last.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Last close: %s\n", format.Ratio(last.AdjustedClose)))
	b.WriteString(fmt.Sprintf("Period change: %s\n", format.Percent(a.CumulativeReturn)))
	b.WriteString(fmt.Sprintf("Range: %s – %s (position %s)\n\n", format.Ratio(a.Low), format.Ratio(a.High), format.Percent(a.RangePosition)))
	writeRecord(&b, a.Stats, a.StatsErr)
	return b.String()
}

func writeRecord(b *strings.Builder, rec model.StatisticsRecord, err error) {
	if err != nil && rec.Periods == 0 {
		b.WriteString(fmt.Sprintf("⚠️ %s\n", html.EscapeString(calculator.Explain(err))))
		return
	}
	b.WriteString(fmt.Sprintf("Annual Return: %s\n", format.Percent(rec.AnnualizedReturn)))
	b.WriteString(fmt.Sprintf("Standard Deviation: %s\n", format.Percent(rec.AnnualizedVolatility)))
	if err != nil {
		b.WriteString(fmt.Sprintf("Risk Adjusted Return: %s\n", html.EscapeString(calculator.Explain(err))))
		return
	}
	b.WriteString(fmt.Sprintf("Risk Adjusted Return: %s\n", format.Ratio(rec.RiskAdjustedReturn)))
}

// FormatComparison formats a comparison as one line per label, sorted by
// risk-adjusted return with failures last.
func FormatComparison(results map[string]model.ComparisonResult, asOf time.Time) string {
	labels := make([]string, 0, len(results))
	for l := range results {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		ri, rj := results[labels[i]], results[labels[j]]
		if (ri.Err == nil) != (rj.Err == nil) {
			return ri.Err == nil
		}
		if ri.Err == nil && ri.Record.RiskAdjustedReturn != rj.Record.RiskAdjustedReturn {
			return ri.Record.RiskAdjustedReturn > rj.Record.RiskAdjustedReturn
		}
		return labels[i] < labels[j]
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Comparison</b> | %s\n\n", asOf.Format("2006-01-02")))
	for _, l := range labels {
		r := results[l]
		name := html.EscapeString(l)
		if r.Err != nil {
			b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", name, html.EscapeString(calculator.Explain(r.Err))))
			continue
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>: return %s | vol %s | ratio %s\n", name,
			format.Percent(r.Record.AnnualizedReturn), format.Percent(r.Record.AnnualizedVolatility), format.Ratio(r.Record.RiskAdjustedReturn)))
	}
	return b.String()
}

// FormatTips formats tips as a bulleted list.
func FormatTips(tips []string) string {
	var b strings.Builder
	b.WriteString("💡 <b>Consider the following tips before investing in stocks:</b>\n")
	for _, t := range tips {
		b.WriteString("• " + html.EscapeString(t) + "\n")
	}
	return b.String()
}
