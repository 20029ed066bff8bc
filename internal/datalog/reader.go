// Package datalog reads and writes the append-only indicator log.
//
// Each data line has the form
//
//	2025-03-01 14:05:09 DATA CPI=319.08
//
// The log is written by the fetch step and only ever read by analysis.
package datalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DataMarker identifies a data line.
const DataMarker = " DATA "

const maxLineSize = 1024 * 1024

// ReadLines loads the whole log at path into memory in file order.
// Open and read failures are returned wrapped; the caller aborts analysis.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return lines, nil
}

// ReadFrom reads every line from r. Line terminators ("\n" or "\r\n") are removed.
func ReadFrom(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// CountDataLines returns how many lines carry the DATA marker.
func CountDataLines(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.Contains(l, DataMarker) {
			n++
		}
	}
	return n
}
