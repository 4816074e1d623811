package notifier

import (
	"fmt"
	"html"
	"strings"

	"SessionAtlas/internal/model"
	"SessionAtlas/internal/pipeline"
)

// FormatRunSummary formats a pipeline run into a Telegram message: table
// sizes, skipped bars, and the latest day and week.
func FormatRunSummary(symbol string, res *pipeline.Result) string {
	var b strings.Builder

	st := res.Stats
	fmt.Fprintf(&b, "🕯 <b>SessionAtlas</b> | %s\n\n", html.EscapeString(symbol))
	fmt.Fprintf(&b, "Bars: %d (skipped %d)\n", st.InputBars, st.SkippedBars)
	if !st.FirstBar.IsZero() {
		fmt.Fprintf(&b, "Range: %s → %s\n", st.FirstBar.Format("2006-01-02 15:04"), st.LastBar.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "Sessions: %d | Days: %d | Weeks: %d | Months: %d\n",
		len(res.Sessions), len(res.Daily), len(res.WeeklyTable), len(res.Monthly))

	if len(res.DailySession) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatDay(res.DailySession[len(res.DailySession)-1]))
	}
	if len(res.WeeklyTable) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWeek(res.WeeklyTable[len(res.WeeklyTable)-1]))
	}
	return b.String()
}

// FormatDay formats one daily-session row.
func FormatDay(r model.DailySessionRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>%s</b> %s (%s)\n", r.Date, r.Day, r.Week)
	fmt.Fprintf(&b, "Day: %s\n", r.DayPattern)
	sessions := []struct {
		s model.Session
		p model.Pattern
	}{
		{model.SessionAsian, r.ASPattern},
		{model.SessionLondon, r.LNPattern},
		{model.SessionNYAM, r.NYAMPattern},
		{model.SessionNYLunch, r.NYLPattern},
		{model.SessionNYPM, r.NYPMPattern},
	}
	for _, s := range sessions {
		if s.p == "" {
			continue
		}
		fmt.Fprintf(&b, "  %-4s %s\n", s.s, s.p)
	}
	fmt.Fprintf(&b, "High in %s, low in %s\n", r.DayHighSession, r.DayLowSession)
	return b.String()
}

// FormatWeek formats one weekly table row.
func FormatWeek(r model.WeeklyRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗓 <b>%d %s</b> (%s)\n", r.ISOYear, r.Week, r.Month)
	fmt.Fprintf(&b, "Week: %s\n", r.WeekPattern)
	fmt.Fprintf(&b, "O %.2f H %.2f L %.2f C %.2f\n", r.Open, r.High, r.Low, r.Close)
	if r.HighDay != "" {
		fmt.Fprintf(&b, "High on %s, low on %s\n", r.HighDay, r.LowDay)
	}
	return b.String()
}
