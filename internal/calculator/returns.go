package calculator

import (
	"iter"
	"math"
	"slices"

	"github.com/pkg/errors"

	"StockAnalyzer/internal/model"
)

// PeriodReturns yields p[i+1]/p[i]-1 for every consecutive pair of points.
//
// All prices are checked before the sequence is returned: a non-positive or
// non-finite adjusted close fails with ErrInvalidInput instead of producing
// NaN or Inf downstream. Series with fewer than two points give an empty
// sequence. The sequence can be ranged over any number of times.
func PeriodReturns(series model.PriceSeries) (iter.Seq[float64], error) {
	if err := checkPrices(series); err != nil {
		return nil, err
	}
	points := series.Points
	return func(yield func(float64) bool) {
		for i := 1; i < len(points); i++ {
			if !yield(points[i].AdjustedClose/points[i-1].AdjustedClose - 1) {
				return
			}
		}
	}, nil
}

// Returns collects PeriodReturns into a slice of length max(0, n-1).
func Returns(series model.PriceSeries) ([]float64, error) {
	seq, err := PeriodReturns(series)
	if err != nil {
		return nil, err
	}
	out := slices.Collect(seq)
	if out == nil {
		out = []float64{}
	}
	return out, nil
}

// ReturnTable pairs each period return with the point that closes the period.
func ReturnTable(series model.PriceSeries) ([]model.ReturnRow, error) {
	rets, err := Returns(series)
	if err != nil {
		return nil, err
	}
	rows := make([]model.ReturnRow, len(rets))
	for i, r := range rets {
		p := series.Points[i+1]
		rows[i] = model.ReturnRow{Date: p.Date, AdjustedClose: p.AdjustedClose, Change: r}
	}
	return rows, nil
}

// CumulativeReturn returns last/first - 1 over the whole series.
func CumulativeReturn(series model.PriceSeries) (float64, error) {
	if err := checkPrices(series); err != nil {
		return 0, err
	}
	n := len(series.Points)
	if n < 2 {
		return 0, errors.Wrapf(ErrInsufficientData, "%d price points", n)
	}
	return series.Points[n-1].AdjustedClose/series.Points[0].AdjustedClose - 1, nil
}

func checkPrices(series model.PriceSeries) error {
	for i, p := range series.Points {
		if p.AdjustedClose <= 0 || math.IsNaN(p.AdjustedClose) || math.IsInf(p.AdjustedClose, 0) {
			return errors.Wrapf(ErrInvalidInput, "price %v at index %d (%s)",
				p.AdjustedClose, i, p.Date.Format("2006-01-02"))
		}
	}
	return nil
}
