// Package report assembles the economic analysis report for econwatch.
// It renders the text narration from the data log, saves it, and draws the
// indexed trend chart as PNG or SVG.
package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/seenimoa/econwatch/internal/analysis/macro"
	"github.com/seenimoa/econwatch/internal/datalog"
	"github.com/seenimoa/econwatch/pkg/models"
	"github.com/seenimoa/econwatch/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Assembler
// ════════════════════════════════════════════════════════════════════

// PreviewLines is the number of raw log lines echoed at the top of a report.
const PreviewLines = 5

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithLogger sets the logger that receives skipped-line diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

// Assembler builds the report for a fixed, ordered set of indicators.
type Assembler struct {
	indicators []models.Indicator
	now        func() time.Time
	log        *slog.Logger
}

// NewAssembler creates an assembler. Indicators are narrated in the given order.
func NewAssembler(indicators []models.Indicator, opts ...Option) *Assembler {
	a := &Assembler{
		indicators: indicators,
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SeriesAnalysis is the analysis of one indicator.
type SeriesAnalysis struct {
	Indicator models.Indicator
	Values    []float64
	Skipped   []datalog.Entry
	Summary   macro.Summary
	Trend     macro.TrendResult
	TrendOK   bool
}

// Result is one assembled report.
type Result struct {
	Body        []byte
	GeneratedAt time.Time
	DataLines   int
	Series      []SeriesAnalysis
}

// Lookup returns the analysis for key.
func (r *Result) Lookup(key string) (SeriesAnalysis, bool) {
	for _, s := range r.Series {
		if s.Indicator.Key == key {
			return s, true
		}
	}
	return SeriesAnalysis{}, false
}

// ChartSeries returns the raw series labelled for charting, in report order.
func (r *Result) ChartSeries() []LineChartSeries {
	out := make([]LineChartSeries, len(r.Series))
	for i, s := range r.Series {
		name := s.Indicator.Label
		if name == "" {
			name = s.Indicator.Key
		}
		out[i] = LineChartSeries{Name: name, Values: s.Values}
	}
	return out
}

// Assemble analyzes lines and renders the report body. The whole narration is
// written into one buffer so the printed and saved copies are identical.
func (a *Assembler) Assemble(lines []string) *Result {
	res := &Result{
		GeneratedAt: a.now(),
		DataLines:   datalog.CountDataLines(lines),
		Series:      make([]SeriesAnalysis, 0, len(a.indicators)),
	}
	for _, ind := range a.indicators {
		res.Series = append(res.Series, a.analyze(lines, ind))
	}

	var buf bytes.Buffer
	writePreview(&buf, lines)
	writeValues(&buf, res.Series)
	writeSummary(&buf, res.Series)
	writeTrends(&buf, res.Series)
	res.Body = buf.Bytes()
	return res
}

func (a *Assembler) analyze(lines []string, ind models.Indicator) SeriesAnalysis {
	entries := datalog.Scan(lines, ind.Key)
	sa := SeriesAnalysis{Indicator: ind, Values: make([]float64, 0, len(entries))}
	for _, e := range entries {
		if !e.OK() {
			sa.Skipped = append(sa.Skipped, e)
			a.log.Debug("skipped log line",
				"key", ind.Key, "line", e.LineNo, "reason", string(e.Reason), "raw", e.Raw)
			continue
		}
		sa.Values = append(sa.Values, e.Value)
	}
	sa.Summary = macro.Summarize(sa.Values)
	sa.Trend, sa.TrendOK = macro.FitTrend(sa.Values)
	return sa
}

// ════════════════════════════════════════════════════════════════════
// Sections
// ════════════════════════════════════════════════════════════════════

func writePreview(w io.Writer, lines []string) {
	fmt.Fprintln(w, "First 5 lines:")
	for i, l := range lines {
		if i == PreviewLines {
			break
		}
		fmt.Fprintln(w, strings.TrimSpace(l))
	}
}

func writeValues(w io.Writer, series []SeriesAnalysis) {
	for _, s := range series {
		fmt.Fprintf(w, "%s values: %s\n", s.Indicator.Key, utils.FormatSeries(s.Values))
	}
}

func writeSummary(w io.Writer, series []SeriesAnalysis) {
	fmt.Fprintln(w, "\n=== Economic Summary ===")

	for _, s := range series {
		if s.Indicator.Key == models.KeyUnemployment || !s.Summary.HasAverage {
			continue
		}
		fmt.Fprintf(w, "Average %s: %.2f\n", s.Indicator.Key, s.Summary.Average)
	}

	for _, s := range series {
		if s.Indicator.Key == models.KeyUnemployment {
			writeUnemployment(w, s.Summary)
		}
	}

	for _, s := range series {
		if s.Indicator.Key == models.KeyUnemployment || !s.Summary.HasDelta {
			continue
		}
		dir := macro.DeltaDirection(s.Summary.Delta)
		fmt.Fprintf(w, "%s change since last: %.2f (%s)\n", s.Indicator.Key, s.Summary.Delta, dir.Arrow())
		if msg := deltaNarrative(s.Indicator.Key, dir); msg != "" {
			fmt.Fprintln(w, msg)
		}
	}
}

func writeUnemployment(w io.Writer, sum macro.Summary) {
	if !sum.HasLatest {
		return
	}
	fmt.Fprintf(w, "Latest Unemployment: %.2f\n", sum.Latest)
	if sum.HasDelta {
		fmt.Fprintf(w, "Change since last: %.2f (%s)\n", sum.Delta, macro.DeltaDirection(sum.Delta).Arrow())
	}
	if macro.UnemploymentState(sum.Latest) == macro.StateWarning {
		fmt.Fprintf(w, "⚠️  Warning: unemployment above %g%%!\n", macro.UnemploymentWarnThreshold)
	} else {
		fmt.Fprintln(w, "✅  Unemployment stable.")
	}
}

// deltaNarrative returns the one-line reading of a CPI or GDP move.
// Other indicators have none.
func deltaNarrative(key string, dir macro.Direction) string {
	switch key {
	case models.KeyCPI:
		switch dir {
		case macro.DirectionUp:
			return "📈 Inflation rising (CPI increased)"
		case macro.DirectionDown:
			return "📉 Inflation easing (CPI decreased)"
		default:
			return "→ Inflation stable."
		}
	case models.KeyGDP:
		switch dir {
		case macro.DirectionUp:
			return "📈 Economic growth accelerating"
		case macro.DirectionDown:
			return "📉 Economic growth slowing"
		default:
			return "→ GDP stable."
		}
	}
	return ""
}

func writeTrends(w io.Writer, series []SeriesAnalysis) {
	fmt.Fprintln(w, "\n=== Trend Analysis ===")
	for _, s := range series {
		writeTrend(w, s.Indicator.Key, s.Trend, s.TrendOK)
	}
}

func writeTrend(w io.Writer, key string, tr macro.TrendResult, ok bool) {
	if !ok {
		fmt.Fprintf(w, "Not enough %s data to analyze trend\n", key)
		return
	}
	fmt.Fprintf(w, "%s slope: %.4f\n", key, tr.Slope)
	fmt.Fprintf(w, "Predicted next %s: %.2f\n", key, tr.PredictedNext)
	if tr.PercentChangeOK {
		fmt.Fprintf(w, "Predicted change: %.2f%%\n", tr.PercentChange)
	} else {
		fmt.Fprintln(w, "Predicted change: n/a (latest value is zero)")
	}
	fmt.Fprintf(w, "%s trend: %s %s\n\n", key, tr.Direction, tr.Direction.Symbol())
}
