package model

import (
	"strconv"
	"strings"
	"time"
)

// SessionAggregate is the merged OHLCV of one session on one calendar date.
type SessionAggregate struct {
	Date    string
	Session Session
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  float64
	Start   time.Time // earliest contributing bar
	End     time.Time // latest contributing bar
	HighAt  time.Time
	LowAt   time.Time
	Pattern Pattern
}

func (SessionAggregate) Headers() []string {
	return []string{"date", "session", "open", "high", "low", "close", "volume", "pattern"}
}

func (a SessionAggregate) Record() []string {
	return []string{
		a.Date, a.Session.String(),
		FormatPrice(a.Open), FormatPrice(a.High),
		FormatPrice(a.Low), FormatPrice(a.Close),
		FormatPrice(a.Volume), a.Pattern.String(),
	}
}

// PeriodFamily names the calendar bucket family a PeriodAggregate belongs to.
type PeriodFamily string

const (
	FamilyDaily   PeriodFamily = "daily"
	FamilyWeekly  PeriodFamily = "weekly"
	FamilyWeekday PeriodFamily = "weekday"
	FamilyMonthly PeriodFamily = "monthly"
)

// PeriodAggregate is the merged OHLCV of one calendar bucket. Key is the
// bucket identity: YYYY-MM-DD, YYYY-MM-Wn, Mon..Fri or YYYY-MM.
type PeriodAggregate struct {
	Key     string
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  float64
	First   time.Time
	Last    time.Time
	Members []string // sorted contributing dates
	Pattern Pattern
}

func (PeriodAggregate) Headers() []string {
	return []string{"date", "open", "high", "low", "close", "volume", "pattern", "members"}
}

func (a PeriodAggregate) Record() []string {
	return []string{
		a.Key,
		FormatPrice(a.Open), FormatPrice(a.High),
		FormatPrice(a.Low), FormatPrice(a.Close),
		FormatPrice(a.Volume), a.Pattern.String(),
		strings.Join(a.Members, ","),
	}
}

// BarPattern is the classification of a single input bar together with the
// shape measurements it was derived from.
type BarPattern struct {
	Timestamp   string
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	Body        float64
	UpperWick   float64
	LowerWick   float64
	BodyRatio   float64
	BodyVsWicks float64
	Pattern     Pattern
}

func (BarPattern) Headers() []string {
	return []string{
		"timestamp", "open", "high", "low", "close", "volume",
		"body", "upper_wick", "lower_wick", "body_ratio", "body_vs_wicks", "pattern",
	}
}

func (p BarPattern) Record() []string {
	return []string{
		p.Timestamp,
		FormatPrice(p.Open), FormatPrice(p.High),
		FormatPrice(p.Low), FormatPrice(p.Close),
		FormatPrice(p.Volume),
		FormatPrice(p.Body), FormatPrice(p.UpperWick), FormatPrice(p.LowerWick),
		FormatRatio(p.BodyRatio), FormatRatio(p.BodyVsWicks),
		p.Pattern.String(),
	}
}

// DailySessionRow summarises one trading date across its sessions.
// Hour columns are empty when the session did not trade that day.
type DailySessionRow struct {
	Date           string
	Week           string
	Day            string
	DayPattern     Pattern
	ASPattern      Pattern
	LNPattern      Pattern
	NYAMPattern    Pattern
	NYLPattern     Pattern
	NYPMPattern    Pattern
	DayHighSession Session
	DayLowSession  Session
	ASLowHour      string
	ASHighHour     string
	LNLowHour      string
	LNHighHour     string
	NYLowHour      string
	NYHighHour     string
}

func (DailySessionRow) Headers() []string {
	return []string{
		"Date", "Week", "Day", "DayCandlePattern", "AS_CandlePattern", "LN_CandlePattern",
		"NYAM_CandlePattern", "NYL_CandlePattern", "NYPM_CandlePattern",
		"DayHighSession", "DayLowSession",
		"AS_LowTime", "AS_HighTime", "LN_LowTime", "LN_HighTime",
		"NY_LowTime", "NY_HighTime",
	}
}

func (r DailySessionRow) Record() []string {
	return []string{
		r.Date, r.Week, r.Day,
		r.DayPattern.String(),
		r.ASPattern.String(), r.LNPattern.String(),
		r.NYAMPattern.String(), r.NYLPattern.String(), r.NYPMPattern.String(),
		r.DayHighSession.String(), r.DayLowSession.String(),
		r.ASLowHour, r.ASHighHour, r.LNLowHour, r.LNHighHour,
		r.NYLowHour, r.NYHighHour,
	}
}

// WeeklyRow summarises one ISO week day by day.
type WeeklyRow struct {
	ISOYear     int
	ISOWeek     int
	Year        string
	Month       string
	Week        string
	Monday      Pattern
	Tuesday     Pattern
	Wednesday   Pattern
	Thursday    Pattern
	Friday      Pattern
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	HighDay     string
	LowDay      string
	WeekPattern Pattern
}

func (WeeklyRow) Headers() []string {
	return []string{
		"Year", "Month", "Week", "Monday", "Tuesday", "Wednesday", "Thursday",
		"Friday", "Open", "High", "Low", "Close", "Volume", "HighDay", "LowDay", "WeekPattern",
	}
}

func (r WeeklyRow) Record() []string {
	return []string{
		r.Year, r.Month, r.Week,
		r.Monday.String(), r.Tuesday.String(), r.Wednesday.String(),
		r.Thursday.String(), r.Friday.String(),
		FormatPrice(r.Open), FormatPrice(r.High),
		FormatPrice(r.Low), FormatPrice(r.Close),
		FormatPrice(r.Volume),
		r.HighDay, r.LowDay,
		r.WeekPattern.String(),
	}
}

// FormatPrice renders a price or volume with six decimals.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// FormatRatio renders a dimensionless ratio with nine decimals.
func FormatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 9, 64)
}

// WeekLabel renders an ISO week number as "Week N".
func WeekLabel(week int) string {
	return "Week " + strconv.Itoa(week)
}

// ShortWeekday returns the three-letter weekday name (Mon, Tue, ...).
func ShortWeekday(d time.Weekday) string {
	return d.String()[:3]
}
