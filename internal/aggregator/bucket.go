package aggregator

import (
	"sort"
	"time"

	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"
)

// bucket is the running OHLCV merge of every bar sharing one key.
// Open follows the earliest bar, close the latest, high/low the envelope.
type bucket struct {
	open    float64
	close   float64
	volume  float64
	first   time.Time
	last    time.Time
	ext     calculator.Extremes[time.Time]
	members map[string]struct{}
}

func newBucket(b stampedBar) *bucket {
	a := &bucket{
		open:    b.Open,
		close:   b.Close,
		first:   b.At,
		last:    b.At,
		ext:     calculator.NewExtremes[time.Time](),
		members: make(map[string]struct{}),
	}
	a.ext.Observe(b.High, b.Low, b.At)
	a.volume = b.Volume
	a.members[b.Date] = struct{}{}
	return a
}

// add merges one bar. Bars arrive in time order, so a bar at the same
// instant as the current close replaces it.
func (a *bucket) add(b stampedBar) {
	a.ext.Observe(b.High, b.Low, b.At)
	if b.At.Before(a.first) {
		a.first = b.At
		a.open = b.Open
	}
	if !b.At.Before(a.last) {
		a.last = b.At
		a.close = b.Close
	}
	a.volume += b.Volume
	a.members[b.Date] = struct{}{}
}

func (a *bucket) pattern(th calculator.Thresholds) model.Pattern {
	return calculator.Classify(a.open, a.ext.High, a.ext.Low, a.close, th)
}

func (a *bucket) memberList() []string {
	out := make([]string, 0, len(a.members))
	for d := range a.members {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (a *bucket) period(key string, th calculator.Thresholds) model.PeriodAggregate {
	return model.PeriodAggregate{
		Key:     key,
		Open:    a.open,
		High:    a.ext.High,
		Low:     a.ext.Low,
		Close:   a.close,
		Volume:  a.volume,
		First:   a.first,
		Last:    a.last,
		Members: a.memberList(),
		Pattern: a.pattern(th),
	}
}

// fold groups the series by key in time order and merges each group.
// Bars for which key reports false are left out. key may keep state across
// calls; it sees bars in non-decreasing time order.
func fold[K comparable](s Series, key func(stampedBar) (K, bool)) map[K]*bucket {
	out := make(map[K]*bucket)
	for _, b := range s.bars {
		k, ok := key(b)
		if !ok {
			continue
		}
		if a, exists := out[k]; exists {
			a.add(b)
		} else {
			out[k] = newBucket(b)
		}
	}
	return out
}
