package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/econwatch/internal/config"
	"github.com/seenimoa/econwatch/internal/datasource"
	"github.com/seenimoa/econwatch/internal/providers/fred"
	"github.com/seenimoa/econwatch/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Log:        config.LogConfig{Path: filepath.Join(dir, "real_data.log")},
		Indicators: models.DefaultIndicators(),
		Output: config.OutputConfig{
			ReportDir:   filepath.Join(dir, "reports"),
			ChartDir:    filepath.Join(dir, "charts"),
			ChartFormat: "svg",
			ChartWidth:  640,
			ChartHeight: 400,
		},
	}
}

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

// ── analyze ──

func TestRunAnalyze(t *testing.T) {
	cfg := testConfig(t)
	writeLog(t, cfg.Log.Path,
		"2025-01-01 09:00:00 DATA CPI=300.00",
		"2025-01-01 09:00:00 DATA GDP=100.00",
		"2025-01-01 09:00:00 DATA Unemployment=4.00",
		"2025-02-01 09:00:00 DATA CPI=310.00",
		"2025-02-01 09:00:00 DATA GDP=101.00",
		"2025-02-01 09:00:00 DATA Unemployment=4.20",
	)

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), &out, cfg, true); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}

	reports, _ := filepath.Glob(filepath.Join(cfg.Output.ReportDir, "report_*.txt"))
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %v", reports)
	}
	saved, err := os.ReadFile(reports[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), saved) {
		t.Error("console output should start with the exact saved report")
	}

	rest := strings.TrimPrefix(out.String(), string(saved))
	for _, want := range []string{"📝 Report saved to " + reports[0], "✅ Report written successfully.", "📈 Chart saved as "} {
		if !strings.Contains(rest, want) {
			t.Errorf("output missing %q\n%s", want, rest)
		}
	}

	charts, _ := filepath.Glob(filepath.Join(cfg.Output.ChartDir, "trend_plot_*.svg"))
	if len(charts) != 1 {
		t.Errorf("expected 1 chart, got %v", charts)
	}
}

func TestRunAnalyze_ChartSkipped(t *testing.T) {
	cfg := testConfig(t)
	writeLog(t, cfg.Log.Path, "2025-01-01 09:00:00 DATA CPI=300.00")

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), &out, cfg, true); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	if !strings.Contains(out.String(), "⚠️ Not enough data to plot trends.") {
		t.Errorf("expected chart warning, got:\n%s", out.String())
	}
	if _, err := os.Stat(cfg.Output.ChartDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("chart dir should not be created when the chart is skipped")
	}
}

func TestRunAnalyze_MissingLog(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	if err := runAnalyze(context.Background(), &out, cfg, false); err == nil {
		t.Error("expected error for missing log")
	}
	if out.Len() != 0 {
		t.Error("nothing should be printed when the log cannot be read")
	}
}

// ── fetch ──

type fakeSource map[string]float64

func (f fakeSource) Latest(ctx context.Context, seriesID string) (models.Observation, error) {
	v, ok := f[seriesID]
	if !ok {
		return models.Observation{}, errors.New("unknown series")
	}
	return models.Observation{SeriesID: seriesID, Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Value: v}, nil
}

func TestRunFetch(t *testing.T) {
	cfg := testConfig(t)
	src := fakeSource{"CPIAUCSL": 323.364, "GDP": 30353.902, "UNRATE": 4.3}

	var out bytes.Buffer
	if err := runFetch(context.Background(), &out, cfg, src); err != nil {
		t.Fatalf("runFetch: %v", err)
	}
	if !strings.Contains(out.String(), "Real economic data saved to "+cfg.Log.Path) {
		t.Errorf("missing confirmation:\n%s", out.String())
	}

	data, err := os.ReadFile(cfg.Log.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, suffix := range []string{" DATA CPI=323.36", " DATA GDP=30353.90", " DATA Unemployment=4.30"} {
		if !strings.HasSuffix(lines[i], suffix) {
			t.Errorf("line %d: got %q, want suffix %q", i, lines[i], suffix)
		}
	}
}

func TestRunFetch_FailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	src := fakeSource{"CPIAUCSL": 323.364}

	if err := runFetch(context.Background(), &bytes.Buffer{}, cfg, src); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(cfg.Log.Path); !errors.Is(err, os.ErrNotExist) {
		t.Error("log should not be written when a fetch fails")
	}
}

func TestNewFREDProvider(t *testing.T) {
	if _, err := newFREDProvider(config.FREDConfig{}); err == nil {
		t.Error("expected error without key and without fallback")
	}
	p, err := newFREDProvider(config.FREDConfig{ScrapeFallback: true})
	if err != nil {
		t.Fatalf("fallback provider: %v", err)
	}
	if p.APIKey() != "" {
		t.Error("expected empty key")
	}
}

// ── status ──

func TestRunStatus(t *testing.T) {
	cfg := testConfig(t)
	writeLog(t, cfg.Log.Path,
		"2025-01-01 09:00:00 DATA CPI=300.00",
		"2025-01-01 09:00:00 DATA CPI=oops",
		"2025-01-01 09:00:00 DATA GDP=100.00",
		"note without marker",
	)

	var out bytes.Buffer
	if err := runStatus(context.Background(), &out, cfg, nil); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	s := out.String()
	for _, want := range []string{
		"Lines:         4",
		"Data lines:    3",
		"Last entry:    2025-01-01 09:00:00",
		"CPI:           1 values, 1 skipped",
		"❌ not set",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("status missing %q\n%s", want, s)
		}
	}
}

func TestRunStatus_NoLog(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	if err := runStatus(context.Background(), &out, cfg, nil); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	if !strings.Contains(out.String(), "not created yet") {
		t.Errorf("unexpected status:\n%s", out.String())
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestRunStatus_Check(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"reachable", nil, "FRED check:    ✅ reachable"},
		{"no key", fred.ErrMissingAPIKey, "FRED check:    ⏭️ skipped (no API key)"},
		{"down", errors.New("fred ping: status 503"), "FRED check:    ❌ fred ping: status 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runStatus(context.Background(), &out, testConfig(t), stubPinger{tt.err}); err != nil {
				t.Fatalf("runStatus: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("status missing %q\n%s", tt.want, out.String())
			}
		})
	}
}

func TestRunStatus_NoCheckByDefault(t *testing.T) {
	var out bytes.Buffer
	if err := runStatus(context.Background(), &out, testConfig(t), nil); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	if strings.Contains(out.String(), "FRED check") {
		t.Errorf("status should not contact FRED without --check\n%s", out.String())
	}
}

func TestLastTimestamp(t *testing.T) {
	lines := []string{
		"2025-01-01 09:00:00 DATA CPI=1",
		"2025-02-01 10:30:00 DATA GDP=2",
		"garbage DATA x=1",
		"trailing note",
	}
	ts, ok := lastTimestamp(lines)
	if !ok {
		t.Fatal("expected a timestamp")
	}
	if got := ts.Format("2006-01-02 15:04:05"); got != "2025-02-01 10:30:00" {
		t.Errorf("got %s", got)
	}
	if _, ok := lastTimestamp([]string{"no data"}); ok {
		t.Error("expected no timestamp")
	}
}

// ── releases ──

const testFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>BLS</title>
<item><title>Consumer Price Index - August 2025</title><link>https://www.bls.gov/news.release/cpi.htm</link>
<pubDate>Thu, 11 Sep 2025 08:30:00 -0400</pubDate>
<description><![CDATA[<p>The CPI rose <b>0.4</b> percent.</p>]]></description></item>
</channel></rss>`

func TestRunReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	r := datasource.NewReleases([]datasource.ReleaseSource{{Name: "BLS CPI", URL: srv.URL}})
	var out bytes.Buffer
	if err := runReleases(context.Background(), &out, r, 5); err != nil {
		t.Fatalf("runReleases: %v", err)
	}
	s := out.String()
	for _, want := range []string{
		"Consumer Price Index - August 2025",
		"BLS CPI",
		"  The CPI rose 0.4 percent.\n",
		"  https://www.bls.gov/news.release/cpi.htm",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q\n%s", want, s)
		}
	}
	if strings.Contains(s, "<b>") {
		t.Errorf("summary should be plain text\n%s", s)
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := shorten("abcdefghij", 5); got != "abcd…" {
		t.Errorf("got %q", got)
	}
}

// ── root command ──

func TestExecuteFlushesSpansOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yml := "log:\n  path: " + filepath.Join(dir, "missing.log") + "\n" +
		"output:\n  report_dir: " + dir + "\n  chart_dir: " + dir + "\n" +
		"logging:\n  level: error\n  format: json\n  tracing: true\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs([]string{"--config", cfgPath, "analyze"})
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		_ = rootCmd.PersistentFlags().Set("config", "")
	})

	err := execute(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing.log") {
		t.Fatalf("execute error = %v, want missing log", err)
	}
	if !strings.Contains(stderr.String(), `"Name":"analyze"`) {
		t.Errorf("failed run should still export its span, stderr:\n%s", stderr.String())
	}
}
