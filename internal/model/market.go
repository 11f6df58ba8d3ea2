package model

import "time"

// PricePoint is a single daily observation.
type PricePoint struct {
	Date          time.Time
	AdjustedClose float64
	Volume        int64 // zero when the source does not report volume
}

// PriceSeries holds the observations for one ticker.
//
// Points must be sorted ascending by Date with no duplicate dates. Fetchers
// guarantee this; the calculator relies on it and never re-sorts.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// Closes returns the adjusted closes in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.AdjustedClose
	}
	return closes
}

// Last returns the most recent observation. ok is false for an empty series.
func (s PriceSeries) Last() (p PricePoint, ok bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
