package datalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// SkipReason explains why a candidate line produced no value.
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipEmpty     SkipReason = "empty value"
	SkipMalformed SkipReason = "malformed value"
	SkipNonFinite SkipReason = "non-finite value"
)

// Entry is the parse result for one line that mentions an indicator key.
type Entry struct {
	LineNo int // 1-based position in the input
	Raw    string
	Value  float64
	Reason SkipReason
}

// OK reports whether the entry carries a usable value.
func (e Entry) OK() bool { return e.Reason == SkipNone }

// ParseLine parses line for key. The second result is false when the line
// does not mention "<key>=" at all. Whitespace anywhere in the line is ignored,
// so "CPI = 324.37" and "CPI=324.37" are equivalent.
func ParseLine(line, key string) (Entry, bool) {
	clean := stripSpace(line)
	token := key + "="
	idx := strings.Index(clean, token)
	if idx < 0 {
		return Entry{}, false
	}

	raw := clean[idx+len(token):]
	e := Entry{Raw: raw}
	if raw == "" {
		e.Reason = SkipEmpty
		return e, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	switch {
	case err != nil, isHexFloat(raw):
		e.Reason = SkipMalformed
	case math.IsNaN(v) || math.IsInf(v, 0):
		e.Reason = SkipNonFinite
	default:
		e.Value = v
	}
	return e, true
}

// Scan returns every line mentioning key, in input order, including skipped ones.
func Scan(lines []string, key string) []Entry {
	var entries []Entry
	for i, l := range lines {
		e, ok := ParseLine(l, key)
		if !ok {
			continue
		}
		e.LineNo = i + 1
		entries = append(entries, e)
	}
	return entries
}

// Extract returns the series for key: parsed values in log order.
// Malformed entries are dropped.
func Extract(lines []string, key string) []float64 {
	var values []float64
	for _, e := range Scan(lines, key) {
		if e.OK() {
			values = append(values, e.Value)
		}
	}
	return values
}

// Skipped returns the entries of Scan that produced no value.
func Skipped(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// CheckKeys validates an indicator key set. Matching is substring-based, so a
// key that ends with another key ("CoreCPI" vs "CPI") would feed the shorter
// key's series with the longer key's values.
func CheckKeys(keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("indicator key is empty")
		}
		if strings.IndexFunc(k, func(r rune) bool { return unicode.IsSpace(r) || r == '=' }) >= 0 {
			return fmt.Errorf("indicator key %q contains whitespace or '='", k)
		}
		if seen[k] {
			return fmt.Errorf("duplicate indicator key %q", k)
		}
		seen[k] = true
	}
	for _, a := range keys {
		for _, b := range keys {
			if a != b && strings.HasSuffix(a, b) {
				return fmt.Errorf("indicator key %q ends with key %q", a, b)
			}
		}
	}
	return nil
}

// isHexFloat reports whether s uses Go's hexadecimal float syntax, which the
// log format does not allow.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
