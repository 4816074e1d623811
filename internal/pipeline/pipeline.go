package pipeline

import (
	"time"

	"SessionAtlas/internal/aggregator"
	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"
	"SessionAtlas/internal/table"

	"github.com/rs/zerolog"
)

// Stats summarises one pipeline run.
type Stats struct {
	InputBars   int
	SkippedBars int
	FirstBar    time.Time
	LastBar     time.Time
}

// Result holds every table derived from one bar sequence.
type Result struct {
	Stats        Stats
	BarPatterns  []model.BarPattern
	Sessions     []model.SessionAggregate
	Daily        []model.PeriodAggregate
	Weekly       []model.PeriodAggregate
	Weekday      []model.PeriodAggregate
	Monthly      []model.PeriodAggregate
	DailySession []model.DailySessionRow
	WeeklyTable  []model.WeeklyRow
}

// Runner turns bar sequences into Results.
type Runner struct {
	engine *aggregator.Engine
	logger zerolog.Logger
}

// NewRunner creates a Runner classifying every level with th.
func NewRunner(th calculator.Thresholds, logger zerolog.Logger) *Runner {
	return &Runner{
		engine: aggregator.NewEngine(th, logger),
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run derives all tables from bars. Empty input yields an empty Result.
func (r *Runner) Run(bars []model.Bar) *Result {
	series := r.engine.Prepare(bars)
	first, last := series.Span()

	res := &Result{
		Stats: Stats{
			InputBars:   series.Total,
			SkippedBars: series.Skipped,
			FirstBar:    first,
			LastBar:     last,
		},
		BarPatterns: r.engine.Patterns(bars),
		Sessions:    r.engine.Sessions(series),
	}

	periods := r.engine.Periods(series)
	res.Daily = periods.Daily
	res.Weekly = periods.Weekly
	res.Weekday = periods.Weekday
	res.Monthly = periods.Monthly

	th := r.engine.Thresholds()
	res.DailySession = table.BuildDailySession(res.Sessions, th)
	res.WeeklyTable = table.BuildWeekly(res.Daily, th)

	r.logger.Info().
		Int("bars", res.Stats.InputBars).
		Int("skipped", res.Stats.SkippedBars).
		Int("sessions", len(res.Sessions)).
		Int("days", len(res.Daily)).
		Int("weeks", len(res.WeeklyTable)).
		Msg("pipeline run complete")
	return res
}
