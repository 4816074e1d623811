package model

import (
	"strconv"
	"strings"
)

// Session is an intraday trading window derived from the hour of a bar.
type Session int

const (
	SessionAsian   Session = iota // 01:00 - 07:59
	SessionLondon                 // 08:00 - 14:59
	SessionNYAM                   // 15:00 - 18:59
	SessionNYLunch                // 19:00 - 20:59
	SessionNYPM                   // 21:00 - 23:59
	SessionUnknown
)

// TradingSessions lists the named sessions in code order.
var TradingSessions = []Session{SessionAsian, SessionLondon, SessionNYAM, SessionNYLunch, SessionNYPM}

// String returns the short session code used in output tables.
func (s Session) String() string {
	switch s {
	case SessionAsian:
		return "AS"
	case SessionLondon:
		return "LN"
	case SessionNYAM:
		return "NYAM"
	case SessionNYLunch:
		return "NYL"
	case SessionNYPM:
		return "NYPM"
	default:
		return "Unknown"
	}
}

// Label returns the human readable session name.
func (s Session) Label() string {
	switch s {
	case SessionAsian:
		return "Asian Session"
	case SessionLondon:
		return "London Session"
	case SessionNYAM:
		return "New York AM"
	case SessionNYLunch:
		return "New York Lunch"
	case SessionNYPM:
		return "New York PM"
	default:
		return "Unknown"
	}
}

// IsNewYork reports whether s is one of the three New York sessions.
func (s Session) IsNewYork() bool {
	return s == SessionNYAM || s == SessionNYLunch || s == SessionNYPM
}

// SessionForHour maps an hour of day to its session. Hour 0 and anything
// outside 1..23 is Unknown.
func SessionForHour(hour int) Session {
	switch {
	case hour >= 1 && hour <= 7:
		return SessionAsian
	case hour >= 8 && hour <= 14:
		return SessionLondon
	case hour >= 15 && hour <= 18:
		return SessionNYAM
	case hour >= 19 && hour <= 20:
		return SessionNYLunch
	case hour >= 21 && hour <= 23:
		return SessionNYPM
	default:
		return SessionUnknown
	}
}

// ResolveSession reads the hour token of a timestamp (the text after the
// date/time separator, before the first colon) and maps it to a session.
// Date-only or malformed timestamps resolve to SessionUnknown.
func ResolveSession(ts string) Session {
	s := strings.TrimSpace(ts)
	i := strings.IndexAny(s, "T ")
	if i < 0 {
		return SessionUnknown
	}
	hourTok, _, _ := strings.Cut(s[i+1:], ":")
	hour, err := strconv.Atoi(hourTok)
	if err != nil {
		return SessionUnknown
	}
	return SessionForHour(hour)
}
