package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestMovingAverage_Window2(t *testing.T) {
	series := makeSeries("X", 10, 20, 30)
	ma, err := MovingAverage(series, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ma) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ma))
	}
	if ma[0].Valid {
		t.Errorf("first entry should be absent, got %+v", ma[0])
	}
	if !ma[1].Valid || ma[1].Value != 15 {
		t.Errorf("expected 15, got %+v", ma[1])
	}
	if !ma[2].Valid || ma[2].Value != 25 {
		t.Errorf("expected 25, got %+v", ma[2])
	}
	for i := range ma {
		if !ma[i].Date.Equal(series.Points[i].Date) {
			t.Errorf("entry %d not aligned with its price point", i)
		}
	}
}

func TestMovingAverage_Windows(t *testing.T) {
	series := makeSeries("X", 1, 2, 3, 4, 5, 6)
	tests := []struct {
		window  int
		absent  int
		lastVal float64
	}{
		{1, 0, 6},
		{3, 2, 5},
		{6, 5, 3.5},
	}
	for _, tt := range tests {
		ma, err := MovingAverage(series, tt.window)
		if err != nil {
			t.Fatalf("window %d: unexpected error: %v", tt.window, err)
		}
		absent := 0
		for _, p := range ma {
			if !p.Valid {
				absent++
			}
		}
		if absent != tt.absent {
			t.Errorf("window %d: expected %d absent entries, got %d", tt.window, tt.absent, absent)
		}
		if last := ma[len(ma)-1]; !almostEqual(last.Value, tt.lastVal, 1e-12) {
			t.Errorf("window %d: expected last %f, got %f", tt.window, tt.lastVal, last.Value)
		}
	}
}

func TestMovingAverage_WindowLongerThanSeries(t *testing.T) {
	ma, err := MovingAverage(makeSeries("X", 1, 2, 3), 50)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i, p := range ma {
		if p.Valid {
			t.Errorf("entry %d should be absent", i)
		}
	}
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	for _, w := range []int{0, -3} {
		if _, err := MovingAverage(makeSeries("X", 1, 2), w); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("window %d: expected ErrInvalidInput, got %v", w, err)
		}
	}
}

func TestMovingAverage_InvalidPrices(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
	}{
		{"zero", []float64{10, 0, 20}},
		{"negative", []float64{10, -5, 20}},
		{"nan", []float64{10, math.NaN(), 20, 30, 40, 50}},
		{"inf", []float64{10, math.Inf(1), 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma, err := MovingAverage(makeSeries("X", tt.prices...), 2)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if ma != nil {
				t.Errorf("expected no entries, got %d", len(ma))
			}
		})
	}
}
