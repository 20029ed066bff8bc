package fred

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/econwatch/internal/infra"
	"github.com/seenimoa/econwatch/pkg/models"
)

// ScrapeLatest reads the headline observation from the public series page,
// e.g. https://fred.stlouisfed.org/series/UNRATE. The observation date is not
// parsed; the returned Date is zero.
func (p *Provider) ScrapeLatest(ctx context.Context, seriesID string) (models.Observation, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return models.Observation{}, err
	}

	u := p.siteURL + "/series/" + seriesID
	body, _, err := infra.DoGet(ctx, u, map[string]string{"Accept": "text/html"})
	if err != nil {
		return models.Observation{}, fmt.Errorf("fred page %s: %w", seriesID, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return models.Observation{}, fmt.Errorf("parse FRED page %s: %w", seriesID, err)
	}

	raw := strings.TrimSpace(doc.Find(".series-meta-observation-value").First().Text())
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return models.Observation{}, fmt.Errorf("fred page %s: %w", seriesID, ErrNoObservations)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Observation{}, fmt.Errorf("fred page %s: bad value %q: %w", seriesID, raw, err)
	}
	return models.Observation{SeriesID: seriesID, Value: v}, nil
}
