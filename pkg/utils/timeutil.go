package utils

import (
	"time"
)

// Layouts shared by the data log and the run artifacts.
const (
	// LogTimeLayout prefixes every data log line, e.g. "2025-03-01 14:05:09".
	LogTimeLayout = "2006-01-02 15:04:05"
	// FileStampLayout is embedded in report and chart filenames; unique per second.
	FileStampLayout = "2006-01-02_15-04-05"
)

// FormatLogTime formats t for a data log line in local time.
func FormatLogTime(t time.Time) string {
	return t.Local().Format(LogTimeLayout)
}

// ParseLogTime parses a data log timestamp in local time.
func ParseLogTime(s string) (time.Time, error) {
	return time.ParseInLocation(LogTimeLayout, s, time.Local)
}

// FileStamp returns the filename-safe stamp for t.
func FileStamp(t time.Time) string {
	return t.Local().Format(FileStampLayout)
}

// StampedName builds "<prefix>_<stamp>.<ext>", e.g. "report_2025-03-01_14-05-09.txt".
func StampedName(prefix string, t time.Time, ext string) string {
	return prefix + "_" + FileStamp(t) + "." + ext
}
