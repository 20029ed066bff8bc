package utils

import (
	"testing"
	"time"
)

func TestFormatLogTimeRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 1, 14, 5, 9, 0, time.Local)
	s := FormatLogTime(ts)
	if s != "2025-03-01 14:05:09" {
		t.Fatalf("FormatLogTime = %q", s)
	}
	got, err := ParseLogTime(s)
	if err != nil {
		t.Fatalf("ParseLogTime: %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("ParseLogTime = %v, want %v", got, ts)
	}
}

func TestStampedName(t *testing.T) {
	ts := time.Date(2025, 3, 1, 14, 5, 9, 0, time.Local)
	tests := []struct {
		prefix, ext, want string
	}{
		{"report", "txt", "report_2025-03-01_14-05-09.txt"},
		{"trend_plot", "png", "trend_plot_2025-03-01_14-05-09.png"},
	}
	for _, tt := range tests {
		if got := StampedName(tt.prefix, ts, tt.ext); got != tt.want {
			t.Errorf("StampedName(%q, %q) = %q, want %q", tt.prefix, tt.ext, got, tt.want)
		}
	}
}

func TestFormatSeries(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{nil, "[]"},
		{[]float64{300}, "[300]"},
		{[]float64{300, 310.5, 324.37}, "[300, 310.5, 324.37]"},
		{[]float64{-0.25}, "[-0.25]"},
	}
	for _, tt := range tests {
		if got := FormatSeries(tt.in); got != tt.want {
			t.Errorf("FormatSeries(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("short"); got != "***" {
		t.Errorf("MaskSecret(short) = %q", got)
	}
	if got := MaskSecret("abcdef123456xyz"); got != "abc...xyz" {
		t.Errorf("MaskSecret = %q, want abc...xyz", got)
	}
}
