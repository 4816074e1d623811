package table

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"
)

type datedAggregate struct {
	day time.Time
	agg model.PeriodAggregate
}

// BuildWeekly pivots daily aggregates into one row per plain ISO week, with
// one pattern column per weekday. Weekend days still count towards the
// week's envelope and volume.
func BuildWeekly(daily []model.PeriodAggregate, th calculator.Thresholds) []model.WeeklyRow {
	type weekKey struct{ year, week int }
	byWeek := make(map[weekKey][]datedAggregate)
	for _, a := range daily {
		day, err := model.ParseTimestamp(a.Key)
		if err != nil {
			continue
		}
		y, w := day.ISOWeek()
		k := weekKey{year: y, week: w}
		byWeek[k] = append(byWeek[k], datedAggregate{day: day, agg: a})
	}

	rows := make([]model.WeeklyRow, 0, len(byWeek))
	for k, days := range byWeek {
		sort.Slice(days, func(i, j int) bool { return days[i].day.Before(days[j].day) })
		row := weeklyRow(days, th)
		row.ISOYear, row.ISOWeek = k.year, k.week
		row.Week = model.WeekLabel(k.week)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ISOYear != rows[j].ISOYear {
			return rows[i].ISOYear < rows[j].ISOYear
		}
		return rows[i].ISOWeek < rows[j].ISOWeek
	})
	return rows
}

func weeklyRow(days []datedAggregate, th calculator.Thresholds) model.WeeklyRow {
	first := days[0]
	row := model.WeeklyRow{
		Year:  strconv.Itoa(first.day.Year()),
		Month: fmt.Sprintf("%02d", int(first.day.Month())),
		Open:  first.agg.Open,
		Close: days[len(days)-1].agg.Close,
	}

	ext := calculator.NewExtremes[time.Weekday]()
	for _, d := range days {
		ext.Observe(d.agg.High, d.agg.Low, d.day.Weekday())
		row.Volume += d.agg.Volume

		switch d.day.Weekday() {
		case time.Monday:
			row.Monday = d.agg.Pattern
		case time.Tuesday:
			row.Tuesday = d.agg.Pattern
		case time.Wednesday:
			row.Wednesday = d.agg.Pattern
		case time.Thursday:
			row.Thursday = d.agg.Pattern
		case time.Friday:
			row.Friday = d.agg.Pattern
		}
	}

	row.High, row.Low = ext.High, ext.Low
	row.HighDay = model.ShortWeekday(ext.HighAt)
	row.LowDay = model.ShortWeekday(ext.LowAt)
	row.WeekPattern = calculator.Classify(row.Open, row.High, row.Low, row.Close, th)
	return row
}
