package recorder

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"SessionAtlas/internal/model"
	"SessionAtlas/internal/pipeline"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLRecorder persists run tables to SQLite or PostgreSQL. Every run is
// written in one transaction and tagged with a fresh run id.
type SQLRecorder struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLRecorder opens (or creates) the database and runs migrations.
func NewSQLRecorder(driver, dsn string, logger zerolog.Logger) (*SQLRecorder, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// WAL lets dashboards read while a run is being written.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	r := &SQLRecorder{
		db:     db,
		driver: driver,
		logger: logger.With().Str("component", "recorder").Str("driver", driver).Logger(),
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Msg("sql recorder opened")
	return r, nil
}

func (r *SQLRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			recorded_at  BIGINT NOT NULL,
			input_bars   INTEGER,
			skipped_bars INTEGER,
			first_bar    TEXT,
			last_bar     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_recorded ON runs(recorded_at)`,

		`CREATE TABLE IF NOT EXISTS session_aggregates (
			run_id  TEXT NOT NULL,
			date    TEXT NOT NULL,
			session TEXT NOT NULL,
			open    DOUBLE PRECISION,
			high    DOUBLE PRECISION,
			low     DOUBLE PRECISION,
			close   DOUBLE PRECISION,
			volume  DOUBLE PRECISION,
			pattern TEXT,
			PRIMARY KEY (run_id, date, session)
		)`,

		`CREATE TABLE IF NOT EXISTS period_aggregates (
			run_id     TEXT NOT NULL,
			family     TEXT NOT NULL,
			period_key TEXT NOT NULL,
			open       DOUBLE PRECISION,
			high       DOUBLE PRECISION,
			low        DOUBLE PRECISION,
			close      DOUBLE PRECISION,
			volume     DOUBLE PRECISION,
			pattern    TEXT,
			members    TEXT,
			PRIMARY KEY (run_id, family, period_key)
		)`,

		`CREATE TABLE IF NOT EXISTS daily_session_rows (
			run_id           TEXT NOT NULL,
			date             TEXT NOT NULL,
			week             TEXT,
			day              TEXT,
			day_pattern      TEXT,
			as_pattern       TEXT,
			ln_pattern       TEXT,
			nyam_pattern     TEXT,
			nyl_pattern      TEXT,
			nypm_pattern     TEXT,
			day_high_session TEXT,
			day_low_session  TEXT,
			as_low_time      TEXT,
			as_high_time     TEXT,
			ln_low_time      TEXT,
			ln_high_time     TEXT,
			ny_low_time      TEXT,
			ny_high_time     TEXT,
			PRIMARY KEY (run_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS weekly_rows (
			run_id       TEXT NOT NULL,
			iso_year     INTEGER NOT NULL,
			iso_week     INTEGER NOT NULL,
			month        TEXT,
			monday       TEXT,
			tuesday      TEXT,
			wednesday    TEXT,
			thursday     TEXT,
			friday       TEXT,
			open         DOUBLE PRECISION,
			high         DOUBLE PRECISION,
			low          DOUBLE PRECISION,
			close        DOUBLE PRECISION,
			volume       DOUBLE PRECISION,
			high_day     TEXT,
			low_day      TEXT,
			week_pattern TEXT,
			PRIMARY KEY (run_id, iso_year, iso_week)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04:05")
}

// RecordRun writes every table of res under a new run id.
func (r *SQLRecorder) RecordRun(res *pipeline.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin run %s: %w", runID, err)
	}
	if err := r.writeRun(tx, runID, res); err != nil {
		tx.Rollback()
		return fmt.Errorf("record run %s: %w", runID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", runID, err)
	}

	r.logger.Info().
		Str("run_id", runID).
		Int("sessions", len(res.Sessions)).
		Int("days", len(res.Daily)).
		Msg("run recorded")
	return nil
}

func (r *SQLRecorder) exec(tx *sql.Tx, query string, rows int, args func(i int) []any) error {
	stmt, err := tx.Prepare(rebind(r.driver, query))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < rows; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRecorder) writeRun(tx *sql.Tx, runID string, res *pipeline.Result) error {
	st := res.Stats
	if err := r.exec(tx, `INSERT INTO runs
		(run_id, recorded_at, input_bars, skipped_bars, first_bar, last_bar)
		VALUES (?,?,?,?,?,?)`, 1, func(int) []any {
		return []any{runID, time.Now().Unix(), st.InputBars, st.SkippedBars, timeText(st.FirstBar), timeText(st.LastBar)}
	}); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := r.exec(tx, `INSERT INTO session_aggregates
		(run_id, date, session, open, high, low, close, volume, pattern)
		VALUES (?,?,?,?,?,?,?,?,?)`, len(res.Sessions), func(i int) []any {
		a := res.Sessions[i]
		return []any{runID, a.Date, a.Session.String(), a.Open, a.High, a.Low, a.Close, a.Volume, a.Pattern.String()}
	}); err != nil {
		return fmt.Errorf("insert sessions: %w", err)
	}

	periods := []struct {
		name string
		rows [][]any
	}{
		{string(model.FamilyDaily), periodRows(res.Daily)},
		{string(model.FamilyWeekly), periodRows(res.Weekly)},
		{string(model.FamilyWeekday), periodRows(res.Weekday)},
		{string(model.FamilyMonthly), periodRows(res.Monthly)},
	}
	for _, f := range periods {
		rows := f.rows
		if err := r.exec(tx, `INSERT INTO period_aggregates
			(run_id, family, period_key, open, high, low, close, volume, pattern, members)
			VALUES (?,?,?,?,?,?,?,?,?,?)`, len(rows), func(i int) []any {
			return append([]any{runID, f.name}, rows[i]...)
		}); err != nil {
			return fmt.Errorf("insert %s periods: %w", f.name, err)
		}
	}

	if err := r.exec(tx, `INSERT INTO daily_session_rows
		(run_id, date, week, day, day_pattern, as_pattern, ln_pattern, nyam_pattern, nyl_pattern, nypm_pattern,
		 day_high_session, day_low_session, as_low_time, as_high_time, ln_low_time, ln_high_time, ny_low_time, ny_high_time)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, len(res.DailySession), func(i int) []any {
		args := []any{runID}
		for _, v := range res.DailySession[i].Record() {
			args = append(args, v)
		}
		return args
	}); err != nil {
		return fmt.Errorf("insert daily session rows: %w", err)
	}

	if err := r.exec(tx, `INSERT INTO weekly_rows
		(run_id, iso_year, iso_week, month, monday, tuesday, wednesday, thursday, friday,
		 open, high, low, close, volume, high_day, low_day, week_pattern)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, len(res.WeeklyTable), func(i int) []any {
		w := res.WeeklyTable[i]
		return []any{
			runID, w.ISOYear, w.ISOWeek, w.Month,
			w.Monday.String(), w.Tuesday.String(), w.Wednesday.String(), w.Thursday.String(), w.Friday.String(),
			w.Open, w.High, w.Low, w.Close, w.Volume,
			w.HighDay, w.LowDay, w.WeekPattern.String(),
		}
	}); err != nil {
		return fmt.Errorf("insert weekly rows: %w", err)
	}
	return nil
}

func periodRows(aggs []model.PeriodAggregate) [][]any {
	rows := make([][]any, len(aggs))
	for i, a := range aggs {
		rows[i] = []any{a.Key, a.Open, a.High, a.Low, a.Close, a.Volume, a.Pattern.String(), strings.Join(a.Members, ",")}
	}
	return rows
}

func (r *SQLRecorder) Close() error {
	r.logger.Info().Msg("closing sql recorder")
	return r.db.Close()
}
