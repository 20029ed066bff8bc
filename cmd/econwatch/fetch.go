package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/econwatch/internal/config"
	"github.com/seenimoa/econwatch/internal/datalog"
	"github.com/seenimoa/econwatch/internal/fetch"
	"github.com/seenimoa/econwatch/internal/logger"
	"github.com/seenimoa/econwatch/internal/providers/fred"
	"github.com/seenimoa/econwatch/pkg/utils"
)

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the latest indicator values from FRED and append them to the data log",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newFREDProvider(cfg.FRED)
		if err != nil {
			return err
		}
		ctx, span := logger.StartSpan(cmd.Context(), "fetch")
		err = runFetch(ctx, cmd.OutOrStdout(), cfg, src)
		logger.EndSpan(span, err)
		return err
	},
}

func newFREDProvider(fc config.FREDConfig) (*fred.Provider, error) {
	p := fred.New(
		fred.WithBaseURL(fc.BaseURL),
		fred.WithScrapeFallback(fc.ScrapeFallback),
		fred.WithRateLimit(fc.RequestsPerSec),
		fred.WithTimeout(time.Duration(fc.TimeoutSec)*time.Second),
	)
	if err := p.Init(map[string]string{"api_key": fc.APIKey}); err != nil {
		return nil, fmt.Errorf("%w (set ECONWATCH_FRED_API_KEY or FRED_API_KEY)", err)
	}
	if p.APIKey() == "" {
		slog.Warn("no FRED API key configured, reading public series pages")
	}
	return p, nil
}

func runFetch(ctx context.Context, out io.Writer, cfg *config.Config, src fetch.Source) error {
	app := datalog.NewAppender(cfg.Log.Path)
	readings, err := fetch.NewCollector(src, app, cfg.Indicators, slog.Default()).Collect(ctx)
	if err != nil {
		return err
	}
	for _, r := range readings {
		asOf := "latest"
		if !r.Observation.Date.IsZero() {
			asOf = r.Observation.Date.Format("2006-01-02")
		}
		fmt.Fprintf(out, "  %-14s %12s  (%s)\n", r.Indicator.Key, utils.FormatValue(r.Observation.Value), asOf)
	}
	fmt.Fprintf(out, "Real economic data saved to %s\n", app.Path())
	return nil
}
