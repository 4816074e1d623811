package model

// Pattern is a candlestick shape label.
type Pattern string

const (
	PatternUnknown             Pattern = "Unknown"
	PatternDoji                Pattern = "Doji/SpinningTop"
	PatternBullishHammer       Pattern = "Bullish Hammer"
	PatternBearishHammer       Pattern = "Bearish Hammer"
	PatternBullishShootingStar Pattern = "Bullish Shooting Star"
	PatternBearishShootingStar Pattern = "Bearish Shooting Star"
	PatternBullishLongBody     Pattern = "Bullish Long Body"
	PatternBearishLongBody     Pattern = "Bearish Long Body"
	PatternNeutralLongBody     Pattern = "Neutral Long Body"
	PatternMildBullish         Pattern = "Mild Bullish"
	PatternMildBearish         Pattern = "Mild Bearish"
	PatternNeutral             Pattern = "Neutral"
)

func (p Pattern) String() string { return string(p) }
