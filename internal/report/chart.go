package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ════════════════════════════════════════════════════════════════════
// Indexed Trend Chart
// ════════════════════════════════════════════════════════════════════

// ChartFormat selects the chart encoder.
type ChartFormat string

const (
	ChartPNG ChartFormat = "png"
	ChartSVG ChartFormat = "svg"
)

// IndexBase is the value every series is rescaled to at its first point.
const IndexBase = 100.0

// ErrNotEnoughData is returned when a series is empty or cannot be indexed.
var ErrNotEnoughData = errors.New("not enough data to plot trends")

// ChartConfig holds rendering parameters for charts.
type ChartConfig struct {
	Width        int    // width in pixels (default: 800)
	Height       int    // height in pixels (default: 400)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 60)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
	XAxisName    string
	YAxisName    string
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// TrendChartConfig returns the config for the indexed indicator chart.
func TrendChartConfig(width, height int) ChartConfig {
	cfg := DefaultChartConfig()
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	cfg.Title = "Economic Indicators Over Time (Indexed to 100)"
	cfg.XAxisName = "Data Point Index (Time Order)"
	cfg.YAxisName = "Index (Base = 100)"
	return cfg
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// LineChartSeries represents a named data series for line charts.
type LineChartSeries struct {
	Name   string
	Values []float64
	Color  string // hex color (optional, auto-assigned if empty)
}

var defaultColors = []string{"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0", "#00bcd4"}

func (s LineChartSeries) color(i int) string {
	if s.Color != "" {
		return s.Color
	}
	return defaultColors[i%len(defaultColors)]
}

// Normalize rescales values so the first point equals IndexBase.
// It reports false for an empty series or a zero first value.
func Normalize(values []float64) ([]float64, bool) {
	if len(values) == 0 || values[0] == 0 {
		return nil, false
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / values[0] * IndexBase
	}
	return out, true
}

// IndexSeries normalizes every series. It fails with ErrNotEnoughData unless
// all of them can be indexed.
func IndexSeries(series []LineChartSeries) ([]LineChartSeries, error) {
	if len(series) == 0 {
		return nil, ErrNotEnoughData
	}
	out := make([]LineChartSeries, len(series))
	for i, s := range series {
		norm, ok := Normalize(s.Values)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotEnoughData, s.Name)
		}
		out[i] = LineChartSeries{Name: s.Name, Values: norm, Color: s.Color}
	}
	return out, nil
}

// SaveChart indexes the series and writes trend_plot_<stamp>.<format> into dir.
// Nothing is written when IndexSeries fails.
func SaveChart(dir string, format ChartFormat, series []LineChartSeries, cfg ChartConfig, at time.Time) (string, error) {
	indexed, err := IndexSeries(series)
	if err != nil {
		return "", err
	}
	if format != ChartSVG {
		format = ChartPNG
	}
	labels := indexLabels(indexed)
	return writeStamped(dir, "trend_plot", string(format), at, func(w io.Writer) error {
		if format == ChartSVG {
			_, err := io.WriteString(w, LineChart(indexed, labels, cfg))
			return err
		}
		return RenderPNG(w, indexed, cfg)
	})
}

// indexLabels numbers the x positions 0..n-1 for the longest series.
func indexLabels(series []LineChartSeries) []string {
	n := 0
	for _, s := range series {
		n = max(n, len(s.Values))
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

// ════════════════════════════════════════════════════════════════════
// PNG Line Chart
// ════════════════════════════════════════════════════════════════════

// RenderPNG draws the series as a PNG line chart with a legend.
func RenderPNG(w io.Writer, series []LineChartSeries, cfg ChartConfig) error {
	if len(series) == 0 {
		return ErrNotEnoughData
	}
	if cfg.Width == 0 {
		cfg.Width, cfg.Height = DefaultChartConfig().Width, DefaultChartConfig().Height
	}

	minVal, maxVal, maxLen := valueRange(series)
	if maxLen == 0 {
		return ErrNotEnoughData
	}

	cs := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs, ys := pointsOf(s.Values)
		if len(xs) == 1 {
			// A single point has no x-range; draw it as a flat segment.
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		col := drawing.ColorFromHex(strings.TrimPrefix(s.color(i), "#"))
		cs = append(cs, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    3,
			},
		})
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: chart.Style{Padding: chart.Box{Top: cfg.MarginTop, Left: 16, Right: 12, Bottom: 14}},
		XAxis:      chart.XAxis{Name: cfg.XAxisName},
		YAxis: chart.YAxis{
			Name:  cfg.YAxisName,
			Range: &chart.ContinuousRange{Min: minVal, Max: maxVal},
		},
		Series: cs,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

func pointsOf(values []float64) (xs, ys []float64) {
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	return xs, ys
}

// valueRange returns the padded y-range across all series and the longest
// series length.
func valueRange(series []LineChartSeries) (minVal, maxVal float64, maxLen int) {
	minVal, maxVal = math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		if len(s.Values) > maxLen {
			maxLen = len(s.Values)
		}
		for _, v := range s.Values {
			if !math.IsNaN(v) && v < minVal {
				minVal = v
			}
			if !math.IsNaN(v) && v > maxVal {
				maxVal = v
			}
		}
	}
	if minVal > maxVal {
		return 0, 1, maxLen
	}

	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	return minVal - vRange*0.05, maxVal + vRange*0.05, maxLen
}

// ════════════════════════════════════════════════════════════════════
// SVG Line Chart
// ════════════════════════════════════════════════════════════════════

// LineChart generates an SVG line chart with one or more series.
// Labels are optional X-axis labels corresponding to data points.
func LineChart(series []LineChartSeries, labels []string, cfg ChartConfig) string {
	if len(series) == 0 {
		return emptySVG(cfg, "No data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Line Chart"
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal, maxLen := valueRange(series)
	if maxLen == 0 {
		return emptySVG(cfg, "No data points")
	}
	vRange := maxVal - minVal

	xAt := func(i int) float64 {
		if maxLen == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(maxLen-1)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.1f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}

	// Draw series
	for si, s := range series {
		color := s.color(si)

		var (
			pathParts []string
			cx, cy    float64
		)
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			cx, cy = xAt(i), float64(py+ph)-(v-minVal)/vRange*float64(ph)
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, cx, cy))
		}
		switch {
		case len(pathParts) > 1:
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
				strings.Join(pathParts, " "), color))
		case len(pathParts) == 1:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`, cx, cy, color))
		}

		// Legend
		ly := py + 10 + si*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(s.Name)))
	}

	// X-axis labels
	if len(labels) > 0 {
		interval := maxLen / 6
		if interval < 1 {
			interval = 1
		}
		for i := 0; i < len(labels) && i < maxLen; i += interval {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
				xAt(i), py+ph+18, cfg.FontSize-1, cfg.TextColor, escapeXML(labels[i])))
		}
	}

	// Axis names
	if cfg.XAxisName != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			px+pw/2, cfg.Height-10, cfg.FontSize, cfg.TextColor, escapeXML(cfg.XAxisName)))
	}
	if cfg.YAxisName != "" {
		sb.WriteString(fmt.Sprintf(`<text x="14" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-90 14 %d)">%s</text>`,
			py+ph/2, cfg.FontSize, cfg.TextColor, py+ph/2, escapeXML(cfg.YAxisName)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
