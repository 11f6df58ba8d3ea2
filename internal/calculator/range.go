package calculator

import (
	"math"

	"github.com/pkg/errors"

	"StockAnalyzer/internal/model"
)

// PeriodRange returns the highest and lowest adjusted close in the series.
func PeriodRange(series model.PriceSeries) (high, low float64, err error) {
	if series.Len() == 0 {
		return 0, 0, errors.Wrap(ErrInsufficientData, "no price points provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range series.Points {
		if p.AdjustedClose > high {
			high = p.AdjustedClose
		}
		if p.AdjustedClose < low {
			low = p.AdjustedClose
		}
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.Wrapf(ErrInvalidInput, "high %v below low %v", high, low)
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
