package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SessionAtlas/internal/calculator"
	"SessionAtlas/internal/model"
	"SessionAtlas/internal/pipeline"

	"github.com/rs/zerolog"
)

func TestReadBars_Layouts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []model.Bar
		skipped int
	}{
		{
			name: "six columns comma",
			input: "timestamp,open,high,low,close,volume\n" +
				"2023-03-27T02:00:00,10,11,9.5,10.5,1\n" +
				"2023-03-27T09:00:00, 10.5 ,12,10.4,11.8,2\n",
			want: []model.Bar{
				{Timestamp: "2023-03-27T02:00:00", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1},
				{Timestamp: "2023-03-27T09:00:00", Open: 10.5, High: 12, Low: 10.4, Close: 11.8, Volume: 2},
			},
		},
		{
			name: "terminal export tab",
			input: "<DATE>\t<TIME>\t<OPEN>\t<HIGH>\t<LOW>\t<CLOSE>\t<TICKVOL>\t<VOL>\t<SPREAD>\n" +
				"2023.03.27\t02:00:00\t10\t11\t9.5\t10.5\t120\t0\t2\n",
			want: []model.Bar{
				{Timestamp: "2023.03.27T02:00:00", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 120},
			},
		},
		{
			name: "malformed rows skipped",
			input: "timestamp,open,high,low,close,volume\n" +
				"2023-03-27T02:00:00,abc,11,9.5,10.5,1\n" +
				"2023-03-27T03:00:00,10,11\n" +
				"2023-03-27T04:00:00,10,11,9.5,10.5,1\n",
			want: []model.Bar{
				{Timestamp: "2023-03-27T04:00:00", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1},
			},
			skipped: 2,
		},
		{
			name:  "empty file",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := ReadBars(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if skipped != tt.skipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.skipped)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bars, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("bar %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCSVSource_FetchBars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	data := "timestamp,open,high,low,close,volume\n2023-03-27T02:00:00,10,11,9.5,10.5,1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewCSVSource(path, zerolog.Nop())
	bars, err := src.FetchBars(context.Background())
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 10.5 {
		t.Errorf("unexpected bars: %+v", bars)
	}

	missing := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), zerolog.Nop())
	if _, err := missing.FetchBars(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestKlinesSource_FetchBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "1h" || q.Get("limit") != "2" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[
			[1679882400000,"10.0","11.0","9.5","10.5","1.0",1679885999999,"0",1,"0","0","0"],
			[1679907600000,"bad","12.0","10.4","11.8","2.0",1679911199999,"0",1,"0","0","0"],
			[1679911200000,10.5,12.0,10.4,11.8,2.0]
		]`))
	}))
	defer srv.Close()

	src := NewKlinesSource(srv.URL, "k", "BTCUSDT", "1h", 2, "", zerolog.Nop())
	bars, err := src.FetchBars(context.Background())
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Timestamp != "2023-03-27T02:00:00" {
		t.Errorf("timestamp = %s", bars[0].Timestamp)
	}
	if bars[1].Open != 10.5 || bars[1].High != 12 {
		t.Errorf("bare number row = %+v", bars[1])
	}
}

func TestKlinesSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "status", status: http.StatusTooManyRequests, body: `{"msg":"slow down"}`},
		{name: "empty", status: http.StatusOK, body: `[]`, wantErr: ErrNoBars},
		{name: "garbage", status: http.StatusOK, body: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewKlinesSource(srv.URL, "", "X", "1h", 1, "", zerolog.Nop()).FetchBars(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestYahooSource_FetchBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/%5EGSPC") && !strings.HasSuffix(r.URL.Path, "/^GSPC") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1679882400,1679886000],
			"indicators":{"quote":[{
				"open":[10,null],"high":[11,null],"low":[9.5,null],"close":[10.5,null],"volume":[100,null]
			}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	src := NewYahooSource("SPX500", "1h", "5d", "", zerolog.Nop())
	src.BaseURL = srv.URL
	bars, err := src.FetchBars(context.Background())
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1 (null bar dropped)", len(bars))
	}
	want := model.Bar{Timestamp: "2023-03-27T02:00:00", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 100}
	if bars[0] != want {
		t.Errorf("bar = %+v, want %+v", bars[0], want)
	}
}

func TestYahooSource_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	src := NewYahooSource("NOPE", "1h", "5d", "", zerolog.Nop())
	src.BaseURL = srv.URL
	_, err := src.FetchBars(context.Background())
	if err == nil || !strings.Contains(err.Error(), "No data found") {
		t.Errorf("error = %v", err)
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) FetchBars(context.Context) ([]model.Bar, error) {
	return nil, ErrNoBars
}

func TestCollector_Collect(t *testing.T) {
	runner := pipeline.NewRunner(calculator.DefaultThresholds(), zerolog.Nop())
	src := &StaticSource{Bars: []model.Bar{
		{Timestamp: "2023-03-27T02:00:00", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1},
		{Timestamp: "2023-03-27T09:00:00", Open: 10.5, High: 12, Low: 10.4, Close: 11.8, Volume: 2},
	}}

	res, err := NewCollector(src, runner).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(res.Sessions) != 2 || len(res.Daily) != 1 {
		t.Errorf("sessions=%d daily=%d, want 2 and 1", len(res.Sessions), len(res.Daily))
	}

	_, err = NewCollector(failingSource{}, runner).Collect(context.Background())
	if !errors.Is(err, ErrNoBars) {
		t.Errorf("error = %v, want ErrNoBars", err)
	}
}

func TestStaticSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&StaticSource{}).FetchBars(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
