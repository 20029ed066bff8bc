// Package datasource reads statistical release announcements for the tracked
// indicators from publisher RSS/Atom feeds.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/econwatch/internal/infra"
	"github.com/seenimoa/econwatch/pkg/models"
)

// ReleaseSource is a publisher feed.
type ReleaseSource struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url"  yaml:"url"`
}

// DefaultReleaseSources lists the feeds announcing CPI, GDP and employment releases.
var DefaultReleaseSources = []ReleaseSource{
	{Name: "BLS Consumer Price Index", URL: "https://www.bls.gov/feed/cpi.rss"},
	{Name: "BLS Employment Situation", URL: "https://www.bls.gov/feed/empsit.rss"},
	{Name: "BEA News Releases", URL: "https://apps.bea.gov/rss/rss.xml"},
}

// ErrNoFeeds is returned when every configured feed failed.
var ErrNoFeeds = errors.New("no release feed could be read")

// Releases fetches release announcements from several feeds.
type Releases struct {
	sources []ReleaseSource
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewReleases creates a release reader. Nil or empty sources use the defaults.
func NewReleases(sources []ReleaseSource) *Releases {
	if len(sources) == 0 {
		sources = DefaultReleaseSources
	}
	p := gofeed.NewParser()
	p.Client = infra.HTTPClient
	p.UserAgent = infra.UserAgent
	return &Releases{
		sources: sources,
		limiter: infra.NewRateLimiter(2, time.Second),
		parser:  p,
	}
}

// Latest returns up to limit announcements across all feeds, newest first.
// Failed feeds are skipped and reported in the returned error list.
func (r *Releases) Latest(ctx context.Context, limit int) ([]models.Release, []error, error) {
	var (
		all  []models.Release
		errs []error
	)
	for _, src := range r.sources {
		items, err := r.fetch(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errs, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		all = append(all, items...)
	}
	if len(errs) == len(r.sources) {
		return nil, errs, ErrNoFeeds
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, errs, nil
}

func (r *Releases) fetch(ctx context.Context, src ReleaseSource) ([]models.Release, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := r.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.Name, err)
	}

	out := make([]models.Release, 0, len(feed.Items))
	for _, item := range feed.Items {
		rel := models.Release{
			Source:  src.Name,
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Summary: cleanHTML(item.Description),
		}
		switch {
		case item.PublishedParsed != nil:
			rel.PublishedAt = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			rel.PublishedAt = *item.UpdatedParsed
		}
		out = append(out, rel)
	}
	return out, nil
}

// cleanHTML strips HTML tags from a feed summary.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
