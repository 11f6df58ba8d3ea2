package calculator

import (
	"errors"
	"math"
	"testing"

	"StockAnalyzer/internal/model"
)

func TestComputeStatistics_Example(t *testing.T) {
	rec, err := ComputeStatistics(makeSeries("X", 100, 102, 101, 105), DefaultPeriodsPerYear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Periods != 3 {
		t.Errorf("expected 3 periods, got %d", rec.Periods)
	}
	if !almostEqual(rec.AnnualizedReturn, 4.183203, 1e-5) {
		t.Errorf("annualized return: expected ~4.1832, got %f", rec.AnnualizedReturn)
	}
	// population standard deviation: 0.0203135 * sqrt(252)
	if !almostEqual(rec.AnnualizedVolatility, 0.322466, 1e-5) {
		t.Errorf("annualized volatility: expected ~0.3225, got %f", rec.AnnualizedVolatility)
	}
	if !almostEqual(rec.RiskAdjustedReturn, 12.97254, 1e-4) {
		t.Errorf("risk-adjusted return: expected ~12.97, got %f", rec.RiskAdjustedReturn)
	}
}

func TestComputeStatistics_PeriodsPerYear(t *testing.T) {
	series := makeSeries("BTC", 100, 102, 101, 105)
	daily, err := ComputeStatistics(series, 252)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	crypto, err := ComputeStatistics(series, 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(crypto.AnnualizedReturn/daily.AnnualizedReturn, 365.0/252.0, 1e-12) {
		t.Errorf("return should scale linearly with periods per year")
	}
	if !almostEqual(crypto.AnnualizedVolatility/daily.AnnualizedVolatility, math.Sqrt(365.0/252.0), 1e-12) {
		t.Errorf("volatility should scale with the square root of periods per year")
	}
	if _, err := ComputeStatistics(series, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero periods per year, got %v", err)
	}
}

func TestComputeStatistics_InsufficientData(t *testing.T) {
	for _, s := range []model.PriceSeries{makeSeries("ONE", 42), makeSeries("EMPTY")} {
		_, err := ComputeStatistics(s, DefaultPeriodsPerYear)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("%s: expected ErrInsufficientData, got %v", s.Symbol, err)
		}
	}
}

func TestComputeStatistics_ConstantPrice(t *testing.T) {
	rec, err := ComputeStatistics(makeSeries("FLAT", 10, 10, 10, 10), DefaultPeriodsPerYear)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if rec.AnnualizedReturn != 0 {
		t.Errorf("expected zero return, got %f", rec.AnnualizedReturn)
	}
	if rec.AnnualizedVolatility != 0 {
		t.Errorf("expected zero volatility, got %f", rec.AnnualizedVolatility)
	}
	if !math.IsNaN(rec.RiskAdjustedReturn) {
		t.Errorf("expected NaN ratio, got %f", rec.RiskAdjustedReturn)
	}
}

func TestComputeStatistics_InvalidPrice(t *testing.T) {
	_, err := ComputeStatistics(makeSeries("BAD", 10, 0, 10), DefaultPeriodsPerYear)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComputeStatistics_Idempotent(t *testing.T) {
	series := makeSeries("X", 31.2, 30.8, 33.1, 32.95, 35.4, 34.0)
	a, errA := ComputeStatistics(series, DefaultPeriodsPerYear)
	b, errB := ComputeStatistics(series, DefaultPeriodsPerYear)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if math.Float64bits(a.AnnualizedReturn) != math.Float64bits(b.AnnualizedReturn) ||
		math.Float64bits(a.AnnualizedVolatility) != math.Float64bits(b.AnnualizedVolatility) ||
		math.Float64bits(a.RiskAdjustedReturn) != math.Float64bits(b.RiskAdjustedReturn) {
		t.Errorf("expected bit-identical records, got %+v and %+v", a, b)
	}
}

func TestComputeStatistics_DoesNotMutateInput(t *testing.T) {
	series := makeSeries("X", 1, 2, 3)
	before := series.Closes()
	if _, err := ComputeStatistics(series, DefaultPeriodsPerYear); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range series.Closes() {
		if c != before[i] {
			t.Errorf("price %d changed from %f to %f", i, before[i], c)
		}
	}
}

func TestCompareSeries_IsolatesFailures(t *testing.T) {
	results := CompareSeries(map[string]model.PriceSeries{
		"A":    makeSeries("A", 100, 102, 101, 105),
		"B":    makeSeries("B", 100),
		"FLAT": makeSeries("FLAT", 5, 5),
	}, DefaultPeriodsPerYear)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results["A"].Err != nil {
		t.Errorf("A: unexpected error: %v", results["A"].Err)
	}
	if !almostEqual(results["A"].Record.AnnualizedReturn, 4.183203, 1e-5) {
		t.Errorf("A: unexpected record %+v", results["A"].Record)
	}
	if !errors.Is(results["B"].Err, ErrInsufficientData) {
		t.Errorf("B: expected ErrInsufficientData, got %v", results["B"].Err)
	}
	if !errors.Is(results["FLAT"].Err, ErrDivisionByZero) {
		t.Errorf("FLAT: expected ErrDivisionByZero, got %v", results["FLAT"].Err)
	}
}

func TestCompareSeries_Empty(t *testing.T) {
	if got := CompareSeries(nil, DefaultPeriodsPerYear); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestComputeStatistics_GeometricSeries(t *testing.T) {
	for _, g := range []float64{0.9, 1.01, 1.1, 1.5, 2} {
		for n := 3; n <= 40; n++ {
			prices := make([]float64, n)
			prices[0] = 100
			for i := 1; i < n; i++ {
				prices[i] = prices[i-1] * g
			}
			rec, err := ComputeStatistics(makeSeries("G", prices...), DefaultPeriodsPerYear)
			if err == nil {
				if math.Abs(rec.RiskAdjustedReturn) > 1e6 {
					t.Errorf("g=%v n=%d: ratio %g with nil error", g, n, rec.RiskAdjustedReturn)
				}
				continue
			}
			if !errors.Is(err, ErrDivisionByZero) {
				t.Fatalf("g=%v n=%d: expected ErrDivisionByZero, got %v", g, n, err)
			}
			if !math.IsNaN(rec.RiskAdjustedReturn) {
				t.Errorf("g=%v n=%d: expected NaN ratio, got %v", g, n, rec.RiskAdjustedReturn)
			}
		}
	}
}
