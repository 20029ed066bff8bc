package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/seenimoa/econwatch/internal/config"
	"github.com/seenimoa/econwatch/internal/datalog"
	"github.com/seenimoa/econwatch/internal/logger"
	"github.com/seenimoa/econwatch/internal/report"
)

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the data log and write the report and trend chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		noChart, _ := cmd.Flags().GetBool("no-chart")
		ctx, span := logger.StartSpan(cmd.Context(), "analyze",
			attribute.String("log.path", cfg.Log.Path))
		err := runAnalyze(ctx, cmd.OutOrStdout(), cfg, !noChart)
		logger.EndSpan(span, err)
		return err
	},
}

func init() {
	analyzeCmd.Flags().Bool("no-chart", false, "skip the trend chart")
}

// runAnalyze saves the report body, prints the identical bytes, and draws the
// chart when every series can be indexed.
func runAnalyze(ctx context.Context, out io.Writer, cfg *config.Config, withChart bool) error {
	lines, err := datalog.ReadLines(cfg.Log.Path)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "read data log",
		"path", cfg.Log.Path, "lines", len(lines), "data_lines", datalog.CountDataLines(lines))

	res := report.NewAssembler(cfg.Indicators, report.WithLogger(slog.Default())).Assemble(lines)
	// Save before printing so a failed save leaves no narration behind.
	path, err := report.SaveReport(cfg.Output.ReportDir, res.Body, res.GeneratedAt)
	if err != nil {
		return err
	}
	if _, err := out.Write(res.Body); err != nil {
		return fmt.Errorf("print report: %w", err)
	}
	fmt.Fprintf(out, "📝 Report saved to %s\n", path)
	fmt.Fprintln(out, "✅ Report written successfully.")

	if !withChart {
		return nil
	}
	chartPath, err := report.SaveChart(
		cfg.Output.ChartDir,
		report.ChartFormat(cfg.Output.ChartFormat),
		res.ChartSeries(),
		report.TrendChartConfig(cfg.Output.ChartWidth, cfg.Output.ChartHeight),
		res.GeneratedAt,
	)
	switch {
	case errors.Is(err, report.ErrNotEnoughData):
		slog.WarnContext(ctx, "chart skipped", "reason", err)
		fmt.Fprintln(out, "⚠️ Not enough data to plot trends.")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "📈 Chart saved as %s\n", chartPath)
	return nil
}
