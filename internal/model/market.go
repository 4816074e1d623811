package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bar is one normalized OHLCV sample as delivered by a bar source.
// Timestamp is kept as text; it is parsed once when the engine orders bars.
type Bar struct {
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// ErrBadTimestamp is returned for timestamps in none of the accepted forms.
var ErrBadTimestamp = errors.New("unrecognised timestamp")

// DateLayout is the canonical calendar-date key format.
const DateLayout = "2006-01-02"

// Seconds may carry a fractional part; time.Parse accepts it after the
// seconds field without the layout naming it.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseTimestamp parses the timestamp forms bar sources deliver:
// YYYY-MM-DD, YYYY.MM.DD, either followed by T or a space and HH:MM[:SS[.fff]].
// No zone is applied; the wall clock is taken as given.
func ParseTimestamp(ts string) (time.Time, error) {
	s := normalizeDate(strings.TrimSpace(ts))
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, ts)
}

// DateKey returns the canonical YYYY-MM-DD key of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// normalizeDate rewrites a dotted YYYY.MM.DD date prefix to dashes.
func normalizeDate(s string) string {
	if len(s) < 10 || s[4] != '.' || s[7] != '.' {
		return s
	}
	b := []byte(s)
	b[4], b[7] = '-', '-'
	return string(b)
}
