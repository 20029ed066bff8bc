package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seenimoa/econwatch/pkg/utils"
)

// maxNameAttempts bounds the numbered names tried after a stamp collision.
const maxNameAttempts = 100

// SaveReport writes body to report_<stamp>.txt in dir and returns the path.
// An existing file is never overwritten; a second report in the same second
// gets a numbered name such as report_<stamp>_2.txt.
func SaveReport(dir string, body []byte, at time.Time) (string, error) {
	return writeStamped(dir, "report", "txt", at, func(w io.Writer) error {
		_, err := w.Write(body)
		return err
	})
}

// writeStamped creates a fresh stamped file in dir and fills it with write.
// On any failure the partial file is removed.
func writeStamped(dir, prefix, ext string, at time.Time, write func(io.Writer) error) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", prefix, err)
	}
	f, path, err := createStamped(dir, prefix, ext, at)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
			path = ""
		}
	}()

	if err := write(f); err != nil {
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// createStamped opens the first free name among <prefix>_<stamp>.<ext>,
// <prefix>_<stamp>_2.<ext>, <prefix>_<stamp>_3.<ext> and so on.
func createStamped(dir, prefix, ext string, at time.Time) (*os.File, string, error) {
	name := utils.StampedName(prefix, at, ext)
	base := strings.TrimSuffix(name, "."+ext)
	for n := 1; n <= maxNameAttempts; n++ {
		if n > 1 {
			name = fmt.Sprintf("%s_%d.%s", base, n, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		switch {
		case err == nil:
			return f, path, nil
		case errors.Is(err, fs.ErrExist):
			continue
		default:
			return nil, "", fmt.Errorf("create %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("create %s in %s: %d names already taken", prefix, dir, maxNameAttempts)
}
