package aggregator

import (
	"sort"
	"time"

	"SessionAtlas/internal/model"
)

// stampedBar is an input bar with its parsed time and resolved session.
type stampedBar struct {
	model.Bar
	At      time.Time
	Date    string
	Session model.Session
}

// Series is a parsed bar sequence in non-decreasing time order. Bars whose
// timestamp could not be parsed are dropped and counted in Skipped.
type Series struct {
	bars    []stampedBar
	Total   int
	Skipped int
}

// NewSeries parses and orders bars. Equal timestamps keep their input order.
func NewSeries(bars []model.Bar) Series {
	s := Series{bars: make([]stampedBar, 0, len(bars)), Total: len(bars)}
	for _, b := range bars {
		at, err := model.ParseTimestamp(b.Timestamp)
		if err != nil {
			s.Skipped++
			continue
		}
		s.bars = append(s.bars, stampedBar{
			Bar:     b,
			At:      at,
			Date:    model.DateKey(at),
			Session: model.ResolveSession(b.Timestamp),
		})
	}
	sort.SliceStable(s.bars, func(i, j int) bool { return s.bars[i].At.Before(s.bars[j].At) })
	return s
}

// Len returns the number of usable bars.
func (s Series) Len() int { return len(s.bars) }

// Span returns the first and last bar times; both are zero for an empty series.
func (s Series) Span() (first, last time.Time) {
	if len(s.bars) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.bars[0].At, s.bars[len(s.bars)-1].At
}
