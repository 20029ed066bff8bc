package macro

import "math"

// MinTrendPoints is the shortest series FitTrend will fit.
const MinTrendPoints = 3

// SlopeTolerance is the absolute slope below which a trend counts as stable.
const SlopeTolerance = 1e-4

// TrendLabel classifies a fitted slope.
type TrendLabel string

const (
	TrendStable  TrendLabel = "stable"
	TrendRising  TrendLabel = "rising"
	TrendFalling TrendLabel = "falling"
)

// Symbol returns the glyph shown next to the label in reports.
func (l TrendLabel) Symbol() string {
	switch l {
	case TrendRising:
		return "📈"
	case TrendFalling:
		return "📉"
	default:
		return "→"
	}
}

// TrendResult is a least-squares line over (index, value) pairs and its
// one-step extrapolation.
type TrendResult struct {
	Slope         float64
	Intercept     float64
	PredictedNext float64
	// PercentChange is relative to the latest value. PercentChangeOK is false
	// when the latest value is zero and the ratio is undefined.
	PercentChange   float64
	PercentChangeOK bool
	Direction       TrendLabel
}

// ClassifySlope labels m using SlopeTolerance.
func ClassifySlope(m float64) TrendLabel {
	switch {
	case math.Abs(m) < SlopeTolerance:
		return TrendStable
	case m > 0:
		return TrendRising
	default:
		return TrendFalling
	}
}

// FitTrend fits y = m*x + b by ordinary least squares with x = 0..n-1 and
// extrapolates to x = n. ok is false for fewer than MinTrendPoints values.
func FitTrend(series []float64) (TrendResult, bool) {
	n := len(series)
	if n < MinTrendPoints {
		return TrendResult{}, false
	}

	m, b := linearFit(series)
	next := m*float64(n) + b
	res := TrendResult{
		Slope:         m,
		Intercept:     b,
		PredictedNext: next,
		Direction:     ClassifySlope(m),
	}
	if latest := series[n-1]; latest != 0 {
		res.PercentChange = (next - latest) / latest * 100
		res.PercentChangeOK = true
	}
	return res, true
}

// linearFit returns slope and intercept using the covariance/variance form.
// x values are distinct, so the variance is never zero for n >= 2.
func linearFit(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	xMean := (n - 1) / 2
	var ySum float64
	for _, v := range y {
		ySum += v
	}
	yMean := ySum / n

	var num, den float64
	for i, yi := range y {
		dx := float64(i) - xMean
		num += dx * (yi - yMean)
		den += dx * dx
	}
	slope = num / den
	intercept = yMean - slope*xMean
	return slope, intercept
}
