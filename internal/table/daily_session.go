package table

import (
	"sort"
	"strconv"
	"time"

	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"
)

// BuildDailySession pivots session aggregates into one row per date.
// The day candle spans all sessions of the date: open from the first
// session, close from the last, high/low from the envelope.
func BuildDailySession(sessions []model.SessionAggregate, th calculator.Thresholds) []model.DailySessionRow {
	byDate := make(map[string][]model.SessionAggregate)
	for _, s := range sessions {
		if s.Session == model.SessionUnknown {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	rows := make([]model.DailySessionRow, 0, len(byDate))
	for date, group := range byDate {
		day, err := model.ParseTimestamp(date)
		if err != nil {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Session < group[j].Session })
		rows = append(rows, dailySessionRow(day, group, th))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

func dailySessionRow(day time.Time, group []model.SessionAggregate, th calculator.Thresholds) model.DailySessionRow {
	_, week := day.ISOWeek()
	row := model.DailySessionRow{
		Date: model.DateKey(day),
		Week: model.WeekLabel(week),
		Day:  model.ShortWeekday(day.Weekday()),
	}

	dayExt := calculator.NewExtremes[model.Session]()
	nyExt := calculator.NewExtremes[time.Time]()
	for _, s := range group {
		dayExt.Observe(s.High, s.Low, s.Session)
		if s.Session.IsNewYork() {
			nyExt.ObserveEach(s.High, s.HighAt, s.Low, s.LowAt)
		}

		switch s.Session {
		case model.SessionAsian:
			row.ASPattern = s.Pattern
			row.ASLowHour, row.ASHighHour = hourOf(s.LowAt), hourOf(s.HighAt)
		case model.SessionLondon:
			row.LNPattern = s.Pattern
			row.LNLowHour, row.LNHighHour = hourOf(s.LowAt), hourOf(s.HighAt)
		case model.SessionNYAM:
			row.NYAMPattern = s.Pattern
		case model.SessionNYLunch:
			row.NYLPattern = s.Pattern
		case model.SessionNYPM:
			row.NYPMPattern = s.Pattern
		}
	}

	dayOpen, dayClose := group[0].Open, group[len(group)-1].Close
	row.DayPattern = calculator.Classify(dayOpen, dayExt.High, dayExt.Low, dayClose, th)
	row.DayHighSession = dayExt.HighAt
	row.DayLowSession = dayExt.LowAt
	if !nyExt.Empty() {
		row.NYLowHour, row.NYHighHour = hourOf(nyExt.LowAt), hourOf(nyExt.HighAt)
	}
	return row
}

func hourOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Hour())
}
