package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"SessionAtlas/internal/model"

	"github.com/rs/zerolog"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource fetches intraday bars from the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL   string
	Symbol    string
	Interval  string // e.g. "1h"
	Range     string // e.g. "60d"
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	logger    zerolog.Logger
}

// NewYahooSource creates a Yahoo Finance source.
func NewYahooSource(symbol, interval, rng, proxyURL string, logger zerolog.Logger) *YahooSource {
	return &YahooSource{
		BaseURL:  defaultYahooBaseURL,
		Symbol:   symbol,
		Interval: interval,
		Range:    rng,
		Client:   newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"NAS100": "^NDX",
			"XAUUSD": "GC=F",
			"EURUSD": "EURUSD=X",
		},
		logger: logger.With().Str("source", "yahoo").Logger(),
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

func (s *YahooSource) yahooSymbol() string {
	if mapped, ok := s.SymbolMap[s.Symbol]; ok {
		return mapped
	}
	return s.Symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

func (s *YahooSource) FetchBars(ctx context.Context) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		s.BaseURL, url.PathEscape(s.yahooSymbol()), url.QueryEscape(s.Interval), url.QueryEscape(s.Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoBars
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))
	skipped := 0
	for i, ts := range result.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			skipped++ // null bars (halts, holidays)
			continue
		}
		v, _ := at(quote.Volume, i)
		bars = append(bars, model.Bar{
			Timestamp: time.Unix(ts, 0).UTC().Format(barTimeLayout),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    v,
		})
	}
	if skipped > 0 {
		s.logger.Debug().Int("skipped", skipped).Msg("dropped null bars")
	}
	s.logger.Info().Int("bars", len(bars)).Str("symbol", s.yahooSymbol()).Msg("fetched chart")
	return bars, nil
}
