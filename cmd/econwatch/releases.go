package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/seenimoa/econwatch/internal/datasource"
	"github.com/seenimoa/econwatch/internal/logger"
)

// --- Releases Command ---

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List recent CPI, GDP and employment release announcements",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx, span := logger.StartSpan(cmd.Context(), "releases")
		err := runReleases(ctx, cmd.OutOrStdout(), datasource.NewReleases(cfg.Releases), limit)
		logger.EndSpan(span, err)
		return err
	},
}

func init() {
	releasesCmd.Flags().Int("limit", 10, "maximum number of announcements")
}

func runReleases(ctx context.Context, out io.Writer, r *datasource.Releases, limit int) error {
	items, feedErrs, err := r.Latest(ctx, limit)
	for _, fe := range feedErrs {
		slog.WarnContext(ctx, "release feed failed", "error", fe)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No release announcements found.")
		return nil
	}
	for _, it := range items {
		when := "undated"
		if !it.PublishedAt.IsZero() {
			when = humanize.Time(it.PublishedAt)
		}
		fmt.Fprintf(out, "• %s  [%s, %s]\n", it.Title, it.Source, when)
		if it.Summary != "" {
			fmt.Fprintf(out, "  %s\n", shorten(it.Summary, summaryWidth))
		}
		if it.URL != "" {
			fmt.Fprintf(out, "  %s\n", it.URL)
		}
	}
	return nil
}

const summaryWidth = 160

// shorten cuts s to at most n runes, marking the cut with an ellipsis.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
