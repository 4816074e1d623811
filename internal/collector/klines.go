package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"SessionAtlas/internal/model"

	"github.com/rs/zerolog"
)

// KlinesSource fetches intraday bars from a klines REST endpoint
// (Binance array layout).
type KlinesSource struct {
	BaseURL  string
	APIKey   string
	Symbol   string
	Interval string
	Limit    int
	Client   *http.Client
	logger   zerolog.Logger
}

// NewKlinesSource creates a klines source with optional proxy support.
func NewKlinesSource(baseURL, apiKey, symbol, interval string, limit int, proxyURL string, logger zerolog.Logger) *KlinesSource {
	return &KlinesSource{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Symbol:   symbol,
		Interval: interval,
		Limit:    limit,
		Client:   newHTTPClient(proxyURL),
		logger:   logger.With().Str("source", "klines").Logger(),
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (s *KlinesSource) Name() string { return "klines" }

func (s *KlinesSource) FetchBars(ctx context.Context) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		s.BaseURL, url.QueryEscape(s.Symbol), url.QueryEscape(s.Interval), s.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch klines: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoBars
	}

	bars := make([]model.Bar, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		b, err := decodeKline(row)
		if err != nil {
			skipped++
			continue
		}
		bars = append(bars, b)
	}
	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Str("symbol", s.Symbol).Msg("skipped malformed klines")
	}
	s.logger.Info().Int("bars", len(bars)).Str("symbol", s.Symbol).Str("interval", s.Interval).Msg("fetched klines")
	return bars, nil
}

// decodeKline reads [openTimeMs, "open", "high", "low", "close", "volume", ...].
func decodeKline(row []json.RawMessage) (model.Bar, error) {
	if len(row) < 6 {
		return model.Bar{}, fmt.Errorf("kline has %d fields", len(row))
	}
	var openMs int64
	if err := json.Unmarshal(row[0], &openMs); err != nil {
		return model.Bar{}, fmt.Errorf("open time: %w", err)
	}
	var vals [5]float64
	for i := range vals {
		v, err := rawFloat(row[i+1])
		if err != nil {
			return model.Bar{}, err
		}
		vals[i] = v
	}
	return model.Bar{
		Timestamp: time.UnixMilli(openMs).UTC().Format(barTimeLayout),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}

// rawFloat accepts both quoted ("1.5") and bare (1.5) JSON numbers.
func rawFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("number %s: %w", string(raw), err)
	}
	return f, nil
}
