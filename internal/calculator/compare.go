package calculator

import "StockAnalyzer/internal/model"

// CompareSeries computes statistics for every label independently. A failing
// label carries its error in the result; the other labels are unaffected.
func CompareSeries(seriesByLabel map[string]model.PriceSeries, periodsPerYear int) map[string]model.ComparisonResult {
	out := make(map[string]model.ComparisonResult, len(seriesByLabel))
	for label, series := range seriesByLabel {
		rec, err := ComputeStatistics(series, periodsPerYear)
		out[label] = model.ComparisonResult{Record: rec, Err: err}
	}
	return out
}
