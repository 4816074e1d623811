package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp_AcceptedForms(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-03-27", time.Date(2023, 3, 27, 0, 0, 0, 0, time.UTC)},
		{"2023.03.27", time.Date(2023, 3, 27, 0, 0, 0, 0, time.UTC)},
		{"2023-03-27T09:30", time.Date(2023, 3, 27, 9, 30, 0, 0, time.UTC)},
		{"2023-03-27T09:30:15", time.Date(2023, 3, 27, 9, 30, 15, 0, time.UTC)},
		{"2023-03-27T09:30:15.250", time.Date(2023, 3, 27, 9, 30, 15, 250_000_000, time.UTC)},
		{"2023-03-27 19:15", time.Date(2023, 3, 27, 19, 15, 0, 0, time.UTC)},
		{"2023-03-27 19:15:00", time.Date(2023, 3, 27, 19, 15, 0, 0, time.UTC)},
		{"2023-03-27 19:15:00.5", time.Date(2023, 3, 27, 19, 15, 0, 500_000_000, time.UTC)},
		{"2023.03.27T02:00:00", time.Date(2023, 3, 27, 2, 0, 0, 0, time.UTC)},
		{"  2023-03-27T02:00:00  ", time.Date(2023, 3, 27, 2, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, in := range []string{"", "t1", "2023/03/27", "2023-13-01", "2023-03-27T25:00", "27-03-2023"} {
		if _, err := ParseTimestamp(in); !errors.Is(err, ErrBadTimestamp) {
			t.Errorf("%q: expected ErrBadTimestamp, got %v", in, err)
		}
	}
}

func TestDateKey(t *testing.T) {
	ts, err := ParseTimestamp("2023.03.05T23:59:59")
	if err != nil {
		t.Fatal(err)
	}
	if got := DateKey(ts); got != "2023-03-05" {
		t.Errorf("expected 2023-03-05, got %s", got)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatPrice(1.5); got != "1.500000" {
		t.Errorf("FormatPrice: got %s", got)
	}
	if got := FormatRatio(0.6); got != "0.600000000" {
		t.Errorf("FormatRatio: got %s", got)
	}
	if got := WeekLabel(13); got != "Week 13" {
		t.Errorf("WeekLabel: got %s", got)
	}
	if got := ShortWeekday(time.Wednesday); got != "Wed" {
		t.Errorf("ShortWeekday: got %s", got)
	}
}

func TestPeriodAggregate_Record(t *testing.T) {
	a := PeriodAggregate{
		Key: "2023-03-W1", Open: 1, High: 2, Low: 0.5, Close: 1.25, Volume: 10,
		Members: []string{"2023-03-01", "2023-03-02"}, Pattern: PatternMildBullish,
	}
	rec := a.Record()
	if len(rec) != len(a.Headers()) {
		t.Fatalf("record has %d fields, headers %d", len(rec), len(a.Headers()))
	}
	if rec[4] != "1.250000" || rec[6] != "Mild Bullish" || rec[7] != "2023-03-01,2023-03-02" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestRowsMatchHeaders(t *testing.T) {
	rows := []interface {
		Headers() []string
		Record() []string
	}{
		SessionAggregate{}, PeriodAggregate{}, BarPattern{}, DailySessionRow{}, WeeklyRow{},
	}
	for _, r := range rows {
		if len(r.Headers()) != len(r.Record()) {
			t.Errorf("%T: %d headers vs %d fields", r, len(r.Headers()), len(r.Record()))
		}
	}
}
