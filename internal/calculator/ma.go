package calculator

import (
	"github.com/pkg/errors"

	"StockAnalyzer/internal/model"
)

// MovingAverage returns the trailing mean of the adjusted close over window
// points, one entry per point. The first window-1 entries are not Valid; a
// window longer than the series leaves every entry invalid. Prices are
// checked the same way Returns checks them.
func MovingAverage(series model.PriceSeries, window int) ([]model.MAPoint, error) {
	if window < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "window %d must be at least 1", window)
	}
	if err := checkPrices(series); err != nil {
		return nil, err
	}
	out := make([]model.MAPoint, len(series.Points))
	sum := 0.0
	for i, p := range series.Points {
		out[i].Date = p.Date
		sum += p.AdjustedClose
		if i >= window {
			sum -= series.Points[i-window].AdjustedClose
		}
		if i >= window-1 {
			out[i].Value = sum / float64(window)
			out[i].Valid = true
		}
	}
	return out, nil
}
