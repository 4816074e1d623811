package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"SessionAtlas/internal/pipeline"
)

// Row is any table row with a fixed header.
type Row interface {
	Headers() []string
	Record() []string
}

// File names written by WriteAll.
const (
	BarPatternsFile  = "bar_patterns.csv"
	SessionsFile     = "sessions.csv"
	DailyFile        = "daily.csv"
	WeeklyFile       = "weekly.csv"
	WeekdayFile      = "weekday.csv"
	MonthlyFile      = "monthly.csv"
	DailySessionFile = "daily_session_table.csv"
	WeeklyTableFile  = "weekly_table.csv"
)

// WriteCSV writes rows to path with the row type's header first.
// An empty slice still produces a header line.
func WriteCSV[T Row](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	var zero T
	if err := w.Write(zero.Headers()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteAll writes every table of res into dir, creating it if needed.
// It returns the paths written.
func WriteAll(dir string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	steps := []struct {
		name string
		fn   func(string) error
	}{
		{BarPatternsFile, func(p string) error { return WriteCSV(p, res.BarPatterns) }},
		{SessionsFile, func(p string) error { return WriteCSV(p, res.Sessions) }},
		{DailyFile, func(p string) error { return WriteCSV(p, res.Daily) }},
		{WeeklyFile, func(p string) error { return WriteCSV(p, res.Weekly) }},
		{WeekdayFile, func(p string) error { return WriteCSV(p, res.Weekday) }},
		{MonthlyFile, func(p string) error { return WriteCSV(p, res.Monthly) }},
		{DailySessionFile, func(p string) error { return WriteCSV(p, res.DailySession) }},
		{WeeklyTableFile, func(p string) error { return WriteCSV(p, res.WeeklyTable) }},
	}
	var written []string
	for _, s := range steps {
		p := filepath.Join(dir, s.name)
		if err := s.fn(p); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}
