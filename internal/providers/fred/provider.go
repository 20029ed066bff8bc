// Package fred reads the latest observations of economic series from FRED
// (Federal Reserve Economic Data).
//
// Requires a free API key from https://fred.stlouisfed.org/docs/api/api_key.html
// unless the public series page fallback is enabled.
// Docs: https://fred.stlouisfed.org/docs/api/fred/
package fred

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/seenimoa/econwatch/internal/infra"
	"github.com/seenimoa/econwatch/pkg/models"
)

const (
	// DefaultBaseURL is the FRED REST API root.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"
	// DefaultSiteURL is the public FRED website used by the scrape fallback.
	DefaultSiteURL = "https://fred.stlouisfed.org"

	credAPIKey = "api_key"
)

var (
	// ErrMissingAPIKey is returned when the API is queried without a key.
	ErrMissingAPIKey = errors.New("fred: api_key not configured")
	// ErrNoObservations is returned when a series has no usable value.
	ErrNoObservations = errors.New("fred: no observations")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Provider talks to the FRED API.
type Provider struct {
	apiKey         string
	baseURL        string
	siteURL        string
	scrapeFallback bool
	timeout        time.Duration
	limiter        *infra.RateLimiter
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithSiteURL overrides the public website root (used by tests).
func WithSiteURL(u string) Option {
	return func(p *Provider) { p.siteURL = strings.TrimRight(u, "/") }
}

// WithScrapeFallback enables reading the public series page when no API key is set.
func WithScrapeFallback(on bool) Option {
	return func(p *Provider) { p.scrapeFallback = on }
}

// WithTimeout bounds each Latest call. Non-positive means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithRateLimit allows perSec requests per second. Non-positive disables limiting.
func WithRateLimit(perSec int) Option {
	return func(p *Provider) {
		if perSec <= 0 {
			p.limiter = infra.NewRateLimiter(1, 0)
			return
		}
		p.limiter = infra.NewRateLimiter(perSec, time.Second/time.Duration(perSec))
	}
}

// New creates a FRED provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		siteURL: DefaultSiteURL,
		limiter: infra.NewRateLimiter(2, 500*time.Millisecond),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Init stores the API key. An empty key is accepted only with the scrape fallback.
func (p *Provider) Init(credentials map[string]string) error {
	key := strings.TrimSpace(credentials[credAPIKey])
	if key == "" && !p.scrapeFallback {
		return ErrMissingAPIKey
	}
	p.apiKey = key
	return nil
}

// APIKey returns the stored API key.
func (p *Provider) APIKey() string {
	return p.apiKey
}

// Ping checks connectivity to the FRED API.
func (p *Provider) Ping(ctx context.Context) error {
	if p.apiKey == "" {
		return ErrMissingAPIKey
	}
	var resp fredSeriesResponse
	if err := p.fetchJSON(ctx, "series", url.Values{"series_id": {"GDP"}}, &resp); err != nil {
		return fmt.Errorf("fred ping: %w", err)
	}
	return nil
}

// Latest returns the most recent non-missing observation of seriesID.
// Without an API key it falls back to the public series page when enabled.
func (p *Provider) Latest(ctx context.Context, seriesID string) (models.Observation, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if p.apiKey == "" {
		if p.scrapeFallback {
			return p.ScrapeLatest(ctx, seriesID)
		}
		return models.Observation{}, ErrMissingAPIKey
	}

	// Recent observations can be "." while a release is pending, so look back a few.
	obs, err := p.Observations(ctx, seriesID, 10)
	if err != nil {
		return models.Observation{}, err
	}
	if len(obs) == 0 {
		return models.Observation{}, fmt.Errorf("fred series %s: %w", seriesID, ErrNoObservations)
	}
	return obs[0], nil
}

// Observations returns up to limit observations of seriesID, newest first.
// Missing values (".") are skipped.
func (p *Provider) Observations(ctx context.Context, seriesID string, limit int) ([]models.Observation, error) {
	q := url.Values{
		"series_id":  {seriesID},
		"sort_order": {"desc"},
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp fredObservationsResponse
	if err := p.fetchJSON(ctx, "series/observations", q, &resp); err != nil {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, err)
	}

	var out []models.Observation
	for _, o := range resp.Observations {
		if o.Value == "." || o.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		out = append(out, models.Observation{
			SeriesID: seriesID,
			Date:     parseFredDate(o.Date),
			Value:    v,
		})
	}
	return out, nil
}

// fetchJSON performs a rate-limited GET against the API and decodes the body.
func (p *Provider) fetchJSON(ctx context.Context, endpoint string, q url.Values, dest any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	q.Set(credAPIKey, p.apiKey)
	q.Set("file_type", "json")
	u := p.baseURL + "/" + endpoint + "?" + q.Encode()

	body, _, err := infra.DoGet(ctx, u, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read FRED response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse FRED JSON: %w", err)
	}
	return nil
}

func parseFredDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}
