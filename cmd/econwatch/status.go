package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/seenimoa/econwatch/internal/config"
	"github.com/seenimoa/econwatch/internal/datalog"
	"github.com/seenimoa/econwatch/internal/providers/fred"
	"github.com/seenimoa/econwatch/pkg/utils"
)

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show data log statistics and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p pinger
		if check, _ := cmd.Flags().GetBool("check"); check {
			fp, err := newFREDProvider(cfg.FRED)
			if err != nil {
				return err
			}
			p = fp
		}
		return runStatus(cmd.Context(), cmd.OutOrStdout(), cfg, p)
	},
}

func init() {
	statusCmd.Flags().Bool("check", false, "check that the FRED API answers with the configured key")
}

// pinger is satisfied by *fred.Provider.
type pinger interface {
	Ping(ctx context.Context) error
}

// runStatus prints log statistics and configuration. The FRED API is only
// contacted when p is non-nil.
func runStatus(ctx context.Context, out io.Writer, cfg *config.Config, p pinger) error {
	fmt.Fprintln(out, "═══════════════════════════════════════")
	fmt.Fprintln(out, "  econwatch — Status")
	fmt.Fprintln(out, "═══════════════════════════════════════")
	fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Data Log:")
	fmt.Fprintf(out, "    Path:          %s\n", cfg.Log.Path)
	info, err := os.Stat(cfg.Log.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(out, "    Status:        not created yet (run `econwatch fetch`)")
	case err != nil:
		return fmt.Errorf("stat log %s: %w", cfg.Log.Path, err)
	default:
		lines, err := datalog.ReadLines(cfg.Log.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    Size:          %s\n", humanize.Bytes(uint64(info.Size())))
		fmt.Fprintf(out, "    Lines:         %s\n", humanize.Comma(int64(len(lines))))
		fmt.Fprintf(out, "    Data lines:    %s\n", humanize.Comma(int64(datalog.CountDataLines(lines))))
		if ts, ok := lastTimestamp(lines); ok {
			fmt.Fprintf(out, "    Last entry:    %s (%s)\n", utils.FormatLogTime(ts), humanize.Time(ts))
		}
		for _, ind := range cfg.Indicators {
			entries := datalog.Scan(lines, ind.Key)
			skipped := len(datalog.Skipped(entries))
			fmt.Fprintf(out, "    %-14s %s values", ind.Key+":", humanize.Comma(int64(len(entries)-skipped)))
			if skipped > 0 {
				fmt.Fprintf(out, ", %d skipped", skipped)
			}
			fmt.Fprintln(out)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Configuration:")
	fmt.Fprintf(out, "    FRED API:      %s\n", cfg.FRED.BaseURL)
	if p != nil {
		fmt.Fprintf(out, "    FRED check:    %s\n", pingStatus(ctx, p))
	}
	fmt.Fprintf(out, "    Report dir:    %s\n", cfg.Output.ReportDir)
	fmt.Fprintf(out, "    Chart:         %s in %s\n", cfg.Output.ChartFormat, cfg.Output.ChartDir)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  API Keys:")
	for _, k := range config.CheckAPIKeys(cfg) {
		status := "❌ not set"
		if k.IsSet {
			status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
		} else if cfg.FRED.ScrapeFallback {
			status += " (public page fallback on)"
		}
		fmt.Fprintf(out, "    %-25s %s\n", k.Name+":", status)
	}

	fmt.Fprintln(out, "═══════════════════════════════════════")
	return nil
}

func pingStatus(ctx context.Context, p pinger) string {
	err := p.Ping(ctx)
	switch {
	case err == nil:
		return "✅ reachable"
	case errors.Is(err, fred.ErrMissingAPIKey):
		return "⏭️ skipped (no API key)"
	default:
		slog.WarnContext(ctx, "fred ping failed", "error", err)
		return fmt.Sprintf("❌ %v", err)
	}
}

// lastTimestamp returns the timestamp of the last data line.
func lastTimestamp(lines []string) (time.Time, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		idx := strings.Index(lines[i], datalog.DataMarker)
		if idx < 0 {
			continue
		}
		t, err := utils.ParseLogTime(strings.TrimSpace(lines[i][:idx]))
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
