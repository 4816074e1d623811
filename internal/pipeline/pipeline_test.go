package pipeline

import (
	"testing"

	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"

	"github.com/rs/zerolog"
)

func TestRun_EndToEnd(t *testing.T) {
	r := NewRunner(calculator.DefaultThresholds(), zerolog.Nop())
	bars := []model.Bar{
		{Timestamp: "2023-03-27T02:00:00", Open: 10, High: 11, Low: 9.5, Close: 10.8, Volume: 1},
		{Timestamp: "2023-03-27T09:30:00", Open: 10.8, High: 12, Low: 10.5, Close: 11.5, Volume: 2},
		{Timestamp: "2023-03-27T19:15:00", Open: 11.5, High: 11.6, Low: 10, Close: 10.2, Volume: 3},
		{Timestamp: "2023-03-28T10:00:00", Open: 10.2, High: 10.9, Low: 10.1, Close: 10.7, Volume: 4},
		{Timestamp: "2023-03-28T00:15:00", Open: 10.2, High: 10.3, Low: 10.1, Close: 10.2, Volume: 1},
		{Timestamp: "bad", Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
	}
	res := r.Run(bars)

	if res.Stats.InputBars != 6 || res.Stats.SkippedBars != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
	if len(res.BarPatterns) != 6 {
		t.Errorf("expected a pattern per input bar, got %d", len(res.BarPatterns))
	}
	if len(res.Sessions) != 4 {
		t.Errorf("expected 4 session aggregates, got %d", len(res.Sessions))
	}
	if len(res.Daily) != 2 || len(res.Monthly) != 1 || len(res.Weekly) != 1 || len(res.Weekday) != 2 {
		t.Errorf("unexpected period counts: daily=%d weekly=%d weekday=%d monthly=%d",
			len(res.Daily), len(res.Weekly), len(res.Weekday), len(res.Monthly))
	}
	// The 00:15 bar has no session but still belongs to its day.
	if res.Daily[1].Volume != 5 {
		t.Errorf("expected 2023-03-28 volume 5, got %v", res.Daily[1].Volume)
	}
	if len(res.DailySession) != 2 || len(res.WeeklyTable) != 1 {
		t.Fatalf("unexpected table sizes %d / %d", len(res.DailySession), len(res.WeeklyTable))
	}
	ds := res.DailySession[0]
	if ds.DayHighSession != model.SessionLondon || ds.DayLowSession != model.SessionAsian {
		t.Errorf("unexpected day extremes %s / %s", ds.DayHighSession, ds.DayLowSession)
	}
	wk := res.WeeklyTable[0]
	if wk.Monday != res.Daily[0].Pattern || wk.Tuesday != res.Daily[1].Pattern {
		t.Errorf("weekly pattern columns do not match daily patterns: %+v", wk)
	}
	if wk.Volume != 11 || wk.HighDay != "Mon" {
		t.Errorf("unexpected weekly row %+v", wk)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	res := NewRunner(calculator.DefaultThresholds(), zerolog.Nop()).Run(nil)
	if res.Stats.InputBars != 0 || len(res.BarPatterns) != 0 || len(res.Sessions) != 0 ||
		len(res.Daily) != 0 || len(res.DailySession) != 0 || len(res.WeeklyTable) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}
