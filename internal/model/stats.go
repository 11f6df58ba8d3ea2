package model

import "time"

// StatisticsRecord is the return/risk summary of one series.
type StatisticsRecord struct {
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	RiskAdjustedReturn   float64 // NaN when AnnualizedVolatility is zero
	Periods              int     // number of period returns used
}

// MAPoint is one moving-average entry aligned to a PricePoint.
// Valid is false while the window has not filled yet.
type MAPoint struct {
	Date  time.Time
	Value float64
	Valid bool
}

// ReturnRow is one row of the percentage-change table.
type ReturnRow struct {
	Date          time.Time
	AdjustedClose float64
	Change        float64
}

// ComparisonResult holds the outcome for one label of a comparison.
// Err is set instead of Record when the label could not be evaluated.
type ComparisonResult struct {
	Record StatisticsRecord
	Err    error
}

// Analysis bundles everything the dashboard shows for one ticker.
type Analysis struct {
	Series           PriceSeries
	Returns          []ReturnRow
	Stats            StatisticsRecord
	StatsErr         error
	MovingAverages   map[int][]MAPoint
	High             float64
	Low              float64
	RangePosition    float64
	CumulativeReturn float64
	PeriodsPerYear   int
}
