// Package macro computes summary statistics and linear trends over
// macroeconomic indicator series.
package macro

// Direction classifies the sign of a step-to-step delta.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Arrow returns the arrow glyph used in report narration.
func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	default:
		return "→"
	}
}

// State is the threshold state of the unemployment rate.
type State string

const (
	StateNominal State = "nominal"
	StateWarning State = "warning"
)

// UnemploymentWarnThreshold is the unemployment rate (percent) above which
// the report raises a warning.
const UnemploymentWarnThreshold = 5.0

// Summary holds the descriptive statistics of one series.
// The Has* flags are false when the series is too short for the value.
type Summary struct {
	Count      int
	Average    float64
	HasAverage bool
	Latest     float64
	HasLatest  bool
	Delta      float64
	HasDelta   bool
}

// Summarize computes count, average, latest value and last delta.
func Summarize(series []float64) Summary {
	s := Summary{Count: len(series)}
	if len(series) == 0 {
		return s
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	s.Average = sum / float64(len(series))
	s.HasAverage = true
	s.Latest = series[len(series)-1]
	s.HasLatest = true
	s.Delta, s.HasDelta = LastDelta(series)
	return s
}

// LastDelta returns the change between the last two values.
// ok is false when the series has fewer than two points.
func LastDelta(series []float64) (delta float64, ok bool) {
	n := len(series)
	if n < 2 {
		return 0, false
	}
	return series[n-1] - series[n-2], true
}

// DeltaDirection classifies d by exact sign; zero is flat.
func DeltaDirection(d float64) Direction {
	switch {
	case d > 0:
		return DirectionUp
	case d < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// UnemploymentState maps the latest unemployment rate to its threshold state.
func UnemploymentState(latest float64) State {
	if latest > UnemploymentWarnThreshold {
		return StateWarning
	}
	return StateNominal
}
