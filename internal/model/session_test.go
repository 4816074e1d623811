package model

import "testing"

func TestSessionForHour_Partition(t *testing.T) {
	counts := map[Session]int{}
	for h := 0; h < 24; h++ {
		s := SessionForHour(h)
		counts[s]++
		if h == 0 && s != SessionUnknown {
			t.Errorf("hour 0: expected Unknown, got %s", s)
		}
		if h > 0 && s == SessionUnknown {
			t.Errorf("hour %d: expected a named session", h)
		}
	}
	want := map[Session]int{
		SessionUnknown: 1, SessionAsian: 7, SessionLondon: 7,
		SessionNYAM: 4, SessionNYLunch: 2, SessionNYPM: 3,
	}
	for s, n := range want {
		if counts[s] != n {
			t.Errorf("%s: expected %d hours, got %d", s, n, counts[s])
		}
	}
	for _, h := range []int{-1, 24, 99} {
		if s := SessionForHour(h); s != SessionUnknown {
			t.Errorf("hour %d: expected Unknown, got %s", h, s)
		}
	}
}

func TestResolveSession(t *testing.T) {
	tests := []struct {
		ts   string
		want string
	}{
		{"2023-03-27T02:00:00", "AS"},
		{"2023-03-27T09:30:00", "LN"},
		{"2023-03-27T19:15:00", "NYL"},
		{"2023-03-27 15:00", "NYAM"},
		{"2023.03.27 23:59:59", "NYPM"},
		{"2023-03-27T07:59:59", "AS"},
		{"2023-03-27T08:00:00", "LN"},
		{"2023-03-27T00:30:00", "Unknown"},
		{"2023-03-27", "Unknown"},
		{"2023-03-27Tab:00", "Unknown"},
		{"garbage", "Unknown"},
	}
	for _, tt := range tests {
		if got := ResolveSession(tt.ts).String(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.ts, tt.want, got)
		}
	}
}

func TestSession_NewYork(t *testing.T) {
	for _, s := range TradingSessions {
		want := s == SessionNYAM || s == SessionNYLunch || s == SessionNYPM
		if s.IsNewYork() != want {
			t.Errorf("%s: IsNewYork=%v", s, s.IsNewYork())
		}
		if s.Label() == "Unknown" {
			t.Errorf("%s: missing label", s)
		}
	}
}
