// Package fetch collects the latest indicator readings and appends them to
// the data log.
package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/econwatch/internal/datalog"
	"github.com/seenimoa/econwatch/pkg/models"
)

// Source returns the latest observation of a series.
type Source interface {
	Latest(ctx context.Context, seriesID string) (models.Observation, error)
}

// Reading pairs an indicator with its fetched observation.
type Reading struct {
	Indicator   models.Indicator
	Observation models.Observation
}

// Collector fetches every indicator and appends one data line per indicator.
type Collector struct {
	source     Source
	appender   *datalog.Appender
	indicators []models.Indicator
	logger     *slog.Logger
}

// NewCollector creates a collector. A nil logger uses slog.Default().
func NewCollector(src Source, app *datalog.Appender, indicators []models.Indicator, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{source: src, appender: app, indicators: indicators, logger: logger}
}

// Collect fetches all indicators concurrently. Nothing is appended unless
// every fetch succeeds; lines are then written in indicator order with one
// shared timestamp.
func (c *Collector) Collect(ctx context.Context) ([]Reading, error) {
	readings := make([]Reading, len(c.indicators))

	g, gctx := errgroup.WithContext(ctx)
	for i, ind := range c.indicators {
		i, ind := i, ind
		g.Go(func() error {
			obs, err := c.source.Latest(gctx, ind.SeriesID)
			if err != nil {
				return fmt.Errorf("fetch %s (%s): %w", ind.Key, ind.SeriesID, err)
			}
			readings[i] = Reading{Indicator: ind, Observation: obs}
			c.logger.Debug("fetched indicator",
				"key", ind.Key, "series", ind.SeriesID,
				"value", obs.Value, "date", obs.Date.Format("2006-01-02"))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]datalog.Record, len(readings))
	for i, r := range readings {
		records[i] = datalog.Record{Key: r.Indicator.Key, Value: r.Observation.Value}
	}
	if err := c.appender.Append(records...); err != nil {
		return nil, err
	}
	c.logger.Info("appended indicator readings", "count", len(records), "log", c.appender.Path())
	return readings, nil
}
