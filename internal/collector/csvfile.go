package collector

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"SessionAtlas/internal/model"

	"github.com/rs/zerolog"
)

// CSVSource reads bars from a delimited file with a header line.
// Tab or comma delimiting is detected from the header. Rows with seven or
// more columns are read as date,time,open,high,low,close,volume (terminal
// exports, where volume is the tick volume); six-column rows as
// timestamp,open,high,low,close,volume.
type CSVSource struct {
	Path   string
	logger zerolog.Logger
}

// NewCSVSource creates a file source.
func NewCSVSource(path string, logger zerolog.Logger) *CSVSource {
	return &CSVSource{Path: path, logger: logger.With().Str("source", "csv").Logger()}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) FetchBars(ctx context.Context) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer f.Close()

	bars, skipped, err := ReadBars(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Str("path", s.Path).Msg("skipped malformed rows")
	}
	s.logger.Info().Int("bars", len(bars)).Str("path", s.Path).Msg("loaded bars")
	return bars, nil
}

// ReadBars parses a delimited bar table. It returns the parsed bars and the
// number of rows skipped for malformed numbers or an unknown column count.
func ReadBars(r io.Reader) ([]model.Bar, int, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	if strings.TrimSpace(header) == "" {
		return nil, 0, nil
	}

	cr := csv.NewReader(br)
	cr.Comma = ','
	if strings.Contains(header, "\t") {
		cr.Comma = '\t'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var bars []model.Bar
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read row: %w", err)
		}
		b, ok := parseRow(rec)
		if !ok {
			skipped++
			continue
		}
		bars = append(bars, b)
	}
	return bars, skipped, nil
}

func parseRow(rec []string) (model.Bar, bool) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	var ts string
	var nums []string
	switch {
	case len(rec) >= 7:
		ts = rec[0] + "T" + rec[1]
		nums = rec[2:7]
	case len(rec) == 6:
		ts = rec[0]
		nums = rec[1:6]
	default:
		return model.Bar{}, false
	}

	var vals [5]float64
	for i, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return model.Bar{}, false
		}
		vals[i] = v
	}
	return model.Bar{
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, true
}
