// Package format renders numbers for people: percentages, ratios and large
// report values. Non-finite numbers never reach the output.
package format

import (
	"math"

	"github.com/shopspring/decimal"
)

// NA is shown in place of an undefined number.
const NA = "n/a"

// Percent formats a fraction as a percentage with two decimals, e.g. 0.1234
// becomes "12.34%".
func Percent(v float64) string {
	if !finite(v) {
		return NA
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// Ratio formats a plain number with two decimals.
func Ratio(v float64) string {
	if !finite(v) {
		return NA
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

var scales = []struct {
	exp    int32
	suffix string
}{
	{12, "T"},
	{9, "B"},
	{6, "M"},
	{3, "K"},
}

// Compact shortens a numeric report value, e.g. "135241000000" becomes
// "135.24B". Values that are not numbers are returned unchanged.
func Compact(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	abs := d.Abs()
	for _, sc := range scales {
		if abs.GreaterThanOrEqual(decimal.New(1, sc.exp)) {
			return d.Shift(-sc.exp).StringFixed(2) + sc.suffix
		}
	}
	return d.StringFixed(2)
}

// Finite returns a pointer to v, or nil when v is NaN or infinite, so JSON
// encodes undefined values as null.
func Finite(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
