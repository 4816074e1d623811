package aggregator

import (
	"sort"
	"time"

	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"

	"github.com/rs/zerolog"
)

// Engine builds session and calendar-period aggregates from bar series.
// It holds no state between calls.
type Engine struct {
	thresholds calculator.Thresholds
	logger     zerolog.Logger
}

// NewEngine creates an Engine classifying with th.
func NewEngine(th calculator.Thresholds, logger zerolog.Logger) *Engine {
	return &Engine{thresholds: th, logger: logger.With().Str("component", "aggregator").Logger()}
}

// Thresholds returns the classifier configuration in use.
func (e *Engine) Thresholds() calculator.Thresholds { return e.thresholds }

// Prepare parses and orders bars, logging how many were dropped.
func (e *Engine) Prepare(bars []model.Bar) Series {
	s := NewSeries(bars)
	if s.Skipped > 0 {
		e.logger.Warn().Int("skipped", s.Skipped).Int("total", s.Total).Msg("dropped bars with unparsable timestamps")
	}
	return s
}

// Patterns classifies every input bar, in input order.
func (e *Engine) Patterns(bars []model.Bar) []model.BarPattern {
	out := make([]model.BarPattern, 0, len(bars))
	for _, b := range bars {
		out = append(out, calculator.ClassifyBar(b, e.thresholds))
	}
	return out
}

type sessionKey struct {
	date    string
	session model.Session
}

// Sessions merges bars per (date, session). Bars outside the named
// sessions are ignored. The result is ordered by date, then session code.
func (e *Engine) Sessions(s Series) []model.SessionAggregate {
	buckets := fold(s, func(b stampedBar) (sessionKey, bool) {
		if b.Session == model.SessionUnknown {
			return sessionKey{}, false
		}
		return sessionKey{date: b.Date, session: b.Session}, true
	})

	out := make([]model.SessionAggregate, 0, len(buckets))
	for k, a := range buckets {
		out = append(out, model.SessionAggregate{
			Date:    k.date,
			Session: k.session,
			Open:    a.open,
			High:    a.ext.High,
			Low:     a.ext.Low,
			Close:   a.close,
			Volume:  a.volume,
			Start:   a.first,
			End:     a.last,
			HighAt:  a.ext.HighAt,
			LowAt:   a.ext.LowAt,
			Pattern: a.pattern(e.thresholds),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Session < out[j].Session
	})
	return out
}

// PeriodSet holds the four calendar bucket families.
type PeriodSet struct {
	Daily   []model.PeriodAggregate
	Weekly  []model.PeriodAggregate
	Weekday []model.PeriodAggregate
	Monthly []model.PeriodAggregate
}

// Periods builds the daily, weekly, weekday and monthly families.
// Weekends count towards daily and monthly buckets only.
func (e *Engine) Periods(s Series) PeriodSet {
	daily := fold(s, func(b stampedBar) (string, bool) {
		return b.Date, true
	})

	weeks := newWeekAttributor()
	weekly := fold(s, func(b stampedBar) (string, bool) {
		if isWeekend(b.At) {
			return "", false
		}
		return weeks.key(b.At), true
	})

	weekday := fold(s, func(b stampedBar) (time.Weekday, bool) {
		return b.At.Weekday(), !isWeekend(b.At)
	})

	monthly := fold(s, func(b stampedBar) (string, bool) {
		return b.At.Format("2006-01"), true
	})

	set := PeriodSet{
		Daily:   e.finalize(daily),
		Weekly:  e.finalize(weekly),
		Monthly: e.finalize(monthly),
	}
	sort.Slice(set.Weekly, func(i, j int) bool {
		if !set.Weekly[i].First.Equal(set.Weekly[j].First) {
			return set.Weekly[i].First.Before(set.Weekly[j].First)
		}
		return set.Weekly[i].Key < set.Weekly[j].Key
	})

	for d := time.Monday; d <= time.Friday; d++ {
		if a, ok := weekday[d]; ok {
			set.Weekday = append(set.Weekday, a.period(model.ShortWeekday(d), e.thresholds))
		}
	}

	e.logger.Debug().
		Int("daily", len(set.Daily)).
		Int("weekly", len(set.Weekly)).
		Int("weekday", len(set.Weekday)).
		Int("monthly", len(set.Monthly)).
		Msg("period aggregation done")
	return set
}

// finalize classifies string-keyed buckets and orders them by key.
func (e *Engine) finalize(buckets map[string]*bucket) []model.PeriodAggregate {
	out := make([]model.PeriodAggregate, 0, len(buckets))
	for k, a := range buckets {
		out = append(out, a.period(k, e.thresholds))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func isWeekend(t time.Time) bool {
	d := t.Weekday()
	return d == time.Saturday || d == time.Sunday
}
