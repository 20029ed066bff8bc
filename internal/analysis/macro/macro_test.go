package macro

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ── LastDelta / Summarize ──

func TestLastDeltaInsufficient(t *testing.T) {
	for _, s := range [][]float64{nil, {}, {42}} {
		if _, ok := LastDelta(s); ok {
			t.Errorf("LastDelta(%v) ok = true, want false", s)
		}
	}
}

func TestLastDeltaExact(t *testing.T) {
	tests := []struct {
		series []float64
		want   float64
	}{
		{[]float64{300, 310}, 10},
		{[]float64{1, 2, 3.5, 3.25}, -0.25},
		{[]float64{4.1, 4.1}, 0},
	}
	for _, tt := range tests {
		got, ok := LastDelta(tt.series)
		if !ok {
			t.Fatalf("LastDelta(%v) ok = false", tt.series)
		}
		n := len(tt.series)
		if got != tt.series[n-1]-tt.series[n-2] || got != tt.want {
			t.Errorf("LastDelta(%v) = %v, want %v", tt.series, got, tt.want)
		}
	}
}

func TestDeltaDirection(t *testing.T) {
	tests := []struct {
		d     float64
		want  Direction
		arrow string
	}{
		{10, DirectionUp, "↑"},
		{-0.01, DirectionDown, "↓"},
		{0, DirectionFlat, "→"},
		{1e-12, DirectionUp, "↑"}, // no epsilon band for deltas
	}
	for _, tt := range tests {
		got := DeltaDirection(tt.d)
		if got != tt.want {
			t.Errorf("DeltaDirection(%v) = %s, want %s", tt.d, got, tt.want)
		}
		if got.Arrow() != tt.arrow {
			t.Errorf("Arrow(%s) = %s, want %s", got, got.Arrow(), tt.arrow)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{300, 310})
	if s.Count != 2 || !s.HasAverage || s.Average != 305 {
		t.Errorf("average: %+v", s)
	}
	if !s.HasLatest || s.Latest != 310 {
		t.Errorf("latest: %+v", s)
	}
	if !s.HasDelta || s.Delta != 10 || DeltaDirection(s.Delta) != DirectionUp {
		t.Errorf("delta: %+v", s)
	}

	single := Summarize([]float64{100})
	if !single.HasAverage || single.Average != 100 {
		t.Errorf("single average: %+v", single)
	}
	if single.HasDelta {
		t.Error("single-point series must not have a delta")
	}

	empty := Summarize(nil)
	if empty.Count != 0 || empty.HasAverage || empty.HasLatest || empty.HasDelta {
		t.Errorf("empty summary: %+v", empty)
	}
}

func TestUnemploymentState(t *testing.T) {
	tests := []struct {
		v    float64
		want State
	}{
		{4.1, StateNominal},
		{5.0, StateNominal},
		{5.01, StateWarning},
	}
	for _, tt := range tests {
		if got := UnemploymentState(tt.v); got != tt.want {
			t.Errorf("UnemploymentState(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

// ── FitTrend ──

func TestFitTrendInsufficient(t *testing.T) {
	for _, s := range [][]float64{nil, {1}, {1, 2}} {
		if _, ok := FitTrend(s); ok {
			t.Errorf("FitTrend(%v) ok = true, want false", s)
		}
	}
}

func TestFitTrendLinear(t *testing.T) {
	res, ok := FitTrend([]float64{1, 2, 3})
	if !ok {
		t.Fatal("FitTrend ok = false")
	}
	if !almostEqual(res.Slope, 1, 1e-12) {
		t.Errorf("Slope = %v, want 1", res.Slope)
	}
	if !almostEqual(res.Intercept, 1, 1e-12) {
		t.Errorf("Intercept = %v, want 1", res.Intercept)
	}
	if !almostEqual(res.PredictedNext, 4, 1e-12) {
		t.Errorf("PredictedNext = %v, want 4", res.PredictedNext)
	}
	if !res.PercentChangeOK || !almostEqual(res.PercentChange, 100.0/3, 1e-9) {
		t.Errorf("PercentChange = %v (ok=%v), want 33.33", res.PercentChange, res.PercentChangeOK)
	}
	if res.Direction != TrendRising {
		t.Errorf("Direction = %s, want rising", res.Direction)
	}
}

func TestFitTrendConstant(t *testing.T) {
	res, ok := FitTrend([]float64{5, 5, 5, 5})
	if !ok {
		t.Fatal("FitTrend ok = false")
	}
	if !almostEqual(res.Slope, 0, 1e-12) {
		t.Errorf("Slope = %v, want 0", res.Slope)
	}
	if res.Direction != TrendStable {
		t.Errorf("Direction = %s, want stable", res.Direction)
	}
	if !almostEqual(res.PredictedNext, 5, 1e-12) || !almostEqual(res.PercentChange, 0, 1e-12) {
		t.Errorf("prediction = %v / %v%%", res.PredictedNext, res.PercentChange)
	}
}

func TestFitTrendLeastSquares(t *testing.T) {
	// Normal equations for x = 0..4, y = 2,4,5,4,5 give m = 0.6, b = 2.8.
	res, ok := FitTrend([]float64{2, 4, 5, 4, 5})
	if !ok {
		t.Fatal("FitTrend ok = false")
	}
	if !almostEqual(res.Slope, 0.6, 1e-12) || !almostEqual(res.Intercept, 2.8, 1e-12) {
		t.Errorf("fit = %v, %v; want 0.6, 2.8", res.Slope, res.Intercept)
	}
	if !almostEqual(res.PredictedNext, 5.8, 1e-12) {
		t.Errorf("PredictedNext = %v, want 5.8", res.PredictedNext)
	}
	if !almostEqual(res.PercentChange, 16, 1e-9) {
		t.Errorf("PercentChange = %v, want 16", res.PercentChange)
	}
}

func TestFitTrendFalling(t *testing.T) {
	res, _ := FitTrend([]float64{10, 8, 6})
	if res.Direction != TrendFalling || !almostEqual(res.Slope, -2, 1e-12) {
		t.Errorf("got %+v, want falling slope -2", res)
	}
}

func TestFitTrendZeroLatest(t *testing.T) {
	res, ok := FitTrend([]float64{3, 2, 0})
	if !ok {
		t.Fatal("FitTrend ok = false")
	}
	if res.PercentChangeOK {
		t.Errorf("PercentChangeOK = true for zero latest value (%v)", res.PercentChange)
	}
	if math.IsNaN(res.PercentChange) || math.IsInf(res.PercentChange, 0) {
		t.Errorf("PercentChange must stay finite, got %v", res.PercentChange)
	}
	if !almostEqual(res.Slope, -1.5, 1e-12) {
		t.Errorf("Slope = %v, want -1.5", res.Slope)
	}
}

func TestClassifySlopeTolerance(t *testing.T) {
	tests := []struct {
		m    float64
		want TrendLabel
	}{
		{0, TrendStable},
		{5e-5, TrendStable},
		{-9.9e-5, TrendStable},
		{1e-4, TrendRising},
		{-1e-4, TrendFalling},
		{2.5, TrendRising},
	}
	for _, tt := range tests {
		if got := ClassifySlope(tt.m); got != tt.want {
			t.Errorf("ClassifySlope(%v) = %s, want %s", tt.m, got, tt.want)
		}
	}
}
