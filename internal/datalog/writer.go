package datalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/seenimoa/econwatch/pkg/utils"
)

// Record is one indicator reading to append.
type Record struct {
	Key   string
	Value float64
}

// FormatLine renders a data line without the trailing newline.
func FormatLine(t time.Time, key string, value float64) string {
	return fmt.Sprintf("%s DATA %s=%.2f", utils.FormatLogTime(t), key, value)
}

// Appender appends data lines to the log file.
type Appender struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewAppender creates an appender for the log at path.
func NewAppender(path string) *Appender {
	return &Appender{path: path, now: time.Now}
}

// Path returns the log file path.
func (a *Appender) Path() string { return a.path }

// Append writes records with one shared timestamp, in the given order.
// Either all lines are handed to the OS in one write or none are.
func (a *Appender) Append(records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(FormatLine(now, r.Key, r.Value))
		sb.WriteByte('\n')
	}

	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("append log %s: %w", a.path, err)
		}
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append log %s: %w", a.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("append log %s: %w", a.path, err)
	}
	return nil
}
