package models

import "time"

// Indicator identifies one macroeconomic series tracked in the data log.
type Indicator struct {
	Key      string `json:"key"       mapstructure:"key"       yaml:"key"`       // log token, e.g. "CPI"
	SeriesID string `json:"series_id" mapstructure:"series_id" yaml:"series_id"` // FRED series, e.g. "CPIAUCSL"
	Label    string `json:"label"     mapstructure:"label"     yaml:"label"`     // chart legend text
}

// Well-known indicator keys. The report narrates these three by name.
const (
	KeyCPI          = "CPI"
	KeyGDP          = "GDP"
	KeyUnemployment = "Unemployment"
)

// DefaultIndicators returns the indicator set in report order.
func DefaultIndicators() []Indicator {
	return []Indicator{
		{Key: KeyCPI, SeriesID: "CPIAUCSL", Label: "CPI (Inflation)"},
		{Key: KeyGDP, SeriesID: "GDP", Label: "GDP"},
		{Key: KeyUnemployment, SeriesID: "UNRATE", Label: "Unemployment"},
	}
}

// IndicatorKeys returns the keys of the given indicators in order.
func IndicatorKeys(inds []Indicator) []string {
	keys := make([]string, len(inds))
	for i, ind := range inds {
		keys[i] = ind.Key
	}
	return keys
}

// Observation is a single dated value of an economic series.
type Observation struct {
	SeriesID string    `json:"series_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
}

// Release is an announcement of a statistical release (e.g. a CPI press release).
type Release struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
