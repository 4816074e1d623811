package aggregator

import (
	"fmt"
	"time"
)

type isoWeek struct {
	year int
	week int
}

type yearMonth struct {
	year  int
	month time.Month
}

// weekAttributor assigns each ISO week to the calendar month of the first
// bar seen in it and numbers the weeks of that month in first-seen order.
// Assignments are never revisited, so it must be fed bars chronologically
// and built fresh for every run.
type weekAttributor struct {
	owner map[isoWeek]time.Month
	index map[isoWeek]int
	next  map[yearMonth]int
}

func newWeekAttributor() *weekAttributor {
	return &weekAttributor{
		owner: make(map[isoWeek]time.Month),
		index: make(map[isoWeek]int),
		next:  make(map[yearMonth]int),
	}
}

// key returns the weekly bucket key "{isoYear}-{month:02}-W{n}" for t.
func (w *weekAttributor) key(t time.Time) string {
	y, wk := t.ISOWeek()
	iw := isoWeek{year: y, week: wk}

	month, ok := w.owner[iw]
	if !ok {
		month = t.Month()
		w.owner[iw] = month
	}

	idx, ok := w.index[iw]
	if !ok {
		ym := yearMonth{year: y, month: month}
		w.next[ym]++
		idx = w.next[ym]
		w.index[iw] = idx
	}
	return fmt.Sprintf("%04d-%02d-W%d", y, int(month), idx)
}
