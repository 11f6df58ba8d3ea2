package calculator

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"StockAnalyzer/internal/model"
)

// DefaultPeriodsPerYear is the number of trading days in a year.
const DefaultPeriodsPerYear = 252

// zeroVolatilityTolerance is the volatility, relative to the absolute
// annualized return, below which volatility counts as zero. A constant
// period return leaves floating point noise around 1e-16 in the std.
const zeroVolatilityTolerance = 1e-12

// ComputeStatistics annualizes the mean and population standard deviation of
// the period returns and divides one by the other.
//
// A series with fewer than two points fails with ErrInsufficientData. When
// volatility is zero the record is still returned with AnnualizedReturn and
// AnnualizedVolatility set and RiskAdjustedReturn = NaN, together with an
// error matching ErrDivisionByZero. Volatility within zeroVolatilityTolerance
// of the return counts as zero.
func ComputeStatistics(series model.PriceSeries, periodsPerYear int) (model.StatisticsRecord, error) {
	if periodsPerYear < 1 {
		return model.StatisticsRecord{}, errors.Wrapf(ErrInvalidInput, "periods per year %d", periodsPerYear)
	}
	rets, err := Returns(series)
	if err != nil {
		return model.StatisticsRecord{}, err
	}
	if len(rets) == 0 {
		return model.StatisticsRecord{}, errors.Wrapf(ErrInsufficientData,
			"%s: need at least 2 price points, got %d", series.Symbol, series.Len())
	}

	mean, std := stat.PopMeanStdDev(rets, nil)
	ppy := float64(periodsPerYear)
	rec := model.StatisticsRecord{
		AnnualizedReturn:     mean * ppy,
		AnnualizedVolatility: std * math.Sqrt(ppy),
		RiskAdjustedReturn:   math.NaN(),
		Periods:              len(rets),
	}
	if rec.AnnualizedVolatility <= zeroVolatilityTolerance*math.Abs(rec.AnnualizedReturn) {
		return rec, errors.Wrapf(ErrDivisionByZero, "%s: zero volatility", series.Symbol)
	}
	rec.RiskAdjustedReturn = rec.AnnualizedReturn / rec.AnnualizedVolatility
	return rec, nil
}
