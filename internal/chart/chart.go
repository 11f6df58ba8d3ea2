// Package chart renders price, volume and comparison charts as PNG images.
package chart

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	charts "github.com/vicanso/go-charts/v2"

	"StockAnalyzer/internal/model"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no data")

// Style selects how the price series is drawn.
type Style string

const (
	StyleLine Style = "line"
	StyleBar  Style = "bar"
)

// ParseStyle maps a form value to a Style, defaulting to line.
func ParseStyle(s string) Style {
	if Style(strings.ToLower(s)) == StyleBar {
		return StyleBar
	}
	return StyleLine
}

// Theme selects the chart palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a form value to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(s)) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) option() charts.OptionFunc {
	if t == ThemeDark {
		return charts.ThemeOptionFunc(charts.ThemeDark)
	}
	return charts.ThemeOptionFunc(charts.ThemeLight)
}

const (
	width  = 900
	height = 480
)

// PriceChart plots the adjusted close with one overlay per moving-average
// window. Entries that are not Valid are left as gaps.
func PriceChart(series model.PriceSeries, style Style, theme Theme, mas map[int][]model.MAPoint) ([]byte, error) {
	if series.Len() == 0 {
		return nil, ErrNoData
	}
	closes := series.Closes()
	values := [][]float64{closes}
	names := []string{series.Symbol}

	windows := make([]int, 0, len(mas))
	for w := range mas {
		windows = append(windows, w)
	}
	sort.Ints(windows)

	yMin, yMax := bounds(closes)
	for _, w := range windows {
		ma := mas[w]
		if len(ma) != series.Len() {
			return nil, fmt.Errorf("chart: MA%d has %d points, series has %d", w, len(ma), series.Len())
		}
		line := make([]float64, len(ma))
		for i, p := range ma {
			if !p.Valid {
				line[i] = charts.GetNullValue()
				continue
			}
			line[i] = p.Value
			yMin, yMax = min(yMin, p.Value), max(yMax, p.Value)
		}
		values = append(values, line)
		names = append(names, fmt.Sprintf("MA%d", w))
	}

	chartType := charts.ChartTypeLine
	if style == StyleBar {
		chartType = charts.ChartTypeBar
	}
	seriesList := charts.NewSeriesListDataFromValues(values, chartType)
	for i := range seriesList {
		seriesList[i].Name = names[i]
		if i > 0 {
			seriesList[i].Type = charts.ChartTypeLine
		}
	}

	pad := (yMax - yMin) * 0.05
	lo, hi := yMin-pad, yMax+pad
	if style == StyleBar {
		lo = 0
	}
	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(series.Symbol+" Stock Price", dateSpan(series)),
		xAxis(series),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &lo, Max: &hi, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		theme.option(),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("render price chart: %w", err)
	}
	return p.Bytes()
}

// VolumeChart plots daily traded volume as bars.
func VolumeChart(series model.PriceSeries, theme Theme) ([]byte, error) {
	if series.Len() == 0 {
		return nil, ErrNoData
	}
	vols := make([]float64, series.Len())
	for i, pt := range series.Points {
		vols[i] = float64(pt.Volume)
	}
	p, err := charts.BarRender([][]float64{vols},
		charts.TitleTextOptionFunc(series.Symbol+" Volume", dateSpan(series)),
		xAxis(series),
		theme.option(),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height/2+60),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("render volume chart: %w", err)
	}
	return p.Bytes()
}

// ComparisonChart plots every series as percent change from its first
// point, on the dates all series share.
func ComparisonChart(seriesByLabel map[string]model.PriceSeries, theme Theme) ([]byte, error) {
	labels, dates, values := Normalize(seriesByLabel)
	if len(labels) == 0 || len(dates) == 0 {
		return nil, ErrNoData
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi := bounds(v)
		yMin, yMax = min(yMin, lo), max(yMax, hi)
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	lo, hi := yMin-pad, yMax+pad

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = labels[i]
	}
	xLabels := make([]string, len(dates))
	for i, d := range dates {
		xLabels[i] = d.Format("01-02")
	}
	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Comparison", strings.Join(labels, ", ")+" • normalized %"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: splitNumber(len(dates))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &lo, Max: &hi, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: labels, Left: charts.PositionRight}),
		theme.option(),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("render comparison chart: %w", err)
	}
	return p.Bytes()
}

// Normalize aligns the series on their common dates and rescales each to
// percent change from its first common point. Labels are sorted; series with
// no points or a non-positive base are skipped.
func Normalize(seriesByLabel map[string]model.PriceSeries) (labels []string, dates []time.Time, values [][]float64) {
	for label, s := range seriesByLabel {
		if s.Len() > 0 {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	if len(labels) == 0 {
		return nil, nil, nil
	}

	counts := make(map[time.Time]int)
	for _, label := range labels {
		for _, p := range seriesByLabel[label].Points {
			counts[p.Date]++
		}
	}
	for d, n := range counts {
		if n == len(labels) {
			dates = append(dates, d)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	if len(dates) == 0 {
		return labels, nil, nil
	}

	kept := labels[:0]
	for _, label := range labels {
		byDate := make(map[time.Time]float64, seriesByLabel[label].Len())
		for _, p := range seriesByLabel[label].Points {
			byDate[p.Date] = p.AdjustedClose
		}
		base := byDate[dates[0]]
		if base <= 0 {
			continue
		}
		row := make([]float64, len(dates))
		for i, d := range dates {
			row[i] = (byDate[d]/base - 1) * 100
		}
		kept = append(kept, label)
		values = append(values, row)
	}
	return kept, dates, values
}

func xAxis(series model.PriceSeries) charts.OptionFunc {
	labels := make([]string, series.Len())
	for i, p := range series.Points {
		labels[i] = p.Date.Format("01-02")
	}
	return charts.XAxisOptionFunc(charts.XAxisOption{
		Data:        labels,
		BoundaryGap: charts.FalseFlag(),
		SplitNumber: splitNumber(len(labels)),
	})
}

func splitNumber(n int) int {
	return max(1, min(n-1, 8))
}

func dateSpan(series model.PriceSeries) string {
	first := series.Points[0].Date.Format("2006-01-02")
	last := series.Points[series.Len()-1].Date.Format("2006-01-02")
	return first + " to " + last
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}
