package calculator

import (
	"math"

	"SessionAtlas/internal/model"
)

// Thresholds configures the candlestick classifier. All ratios are relative
// to the full high-low range of the candle.
type Thresholds struct {
	DojiBodyRatio      float64 `yaml:"doji_body_ratio"`
	BodyWickRatioLong  float64 `yaml:"body_wick_ratio_long"`
	BodyWickRatioShort float64 `yaml:"body_wick_ratio_short"`
	UpperVsLowerRatio  float64 `yaml:"upper_vs_lower_ratio"`
	Epsilon            float64 `yaml:"epsilon"`
}

// Documented classifier defaults.
const (
	DefaultDojiBodyRatio      = 0.1
	DefaultBodyWickRatioLong  = 1.5
	DefaultBodyWickRatioShort = 0.5
	DefaultUpperVsLowerRatio  = 2.0
	DefaultEpsilon            = 1e-9
)

// DefaultThresholds returns the documented default configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DojiBodyRatio:      DefaultDojiBodyRatio,
		BodyWickRatioLong:  DefaultBodyWickRatioLong,
		BodyWickRatioShort: DefaultBodyWickRatioShort,
		UpperVsLowerRatio:  DefaultUpperVsLowerRatio,
		Epsilon:            DefaultEpsilon,
	}
}

// Sanitize replaces non-finite values with the defaults, and a non-positive
// epsilon with DefaultEpsilon. It reports the names of replaced fields.
func (t Thresholds) Sanitize() (Thresholds, []string) {
	var fixed []string
	fix := func(v *float64, def float64, name string) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
			fixed = append(fixed, name)
		}
	}
	fix(&t.DojiBodyRatio, DefaultDojiBodyRatio, "doji_body_ratio")
	fix(&t.BodyWickRatioLong, DefaultBodyWickRatioLong, "body_wick_ratio_long")
	fix(&t.BodyWickRatioShort, DefaultBodyWickRatioShort, "body_wick_ratio_short")
	fix(&t.UpperVsLowerRatio, DefaultUpperVsLowerRatio, "upper_vs_lower_ratio")
	fix(&t.Epsilon, DefaultEpsilon, "epsilon")
	if t.Epsilon <= 0 {
		t.Epsilon = DefaultEpsilon
		fixed = append(fixed, "epsilon")
	}
	return t, fixed
}

// Shape holds the measurements of a single candle.
type Shape struct {
	Range       float64
	Body        float64
	UpperWick   float64
	LowerWick   float64
	BodyRatio   float64 // body / range, 0 when the range is degenerate
	BodyVsWicks float64 // body / (upper + lower + eps)
}

// Measure computes the candle shape. Wicks are clamped at zero so that
// slightly inconsistent bars (close above high) still measure sanely.
func Measure(open, high, low, close, eps float64) Shape {
	s := Shape{
		Range:     math.Max(high-low, 0),
		Body:      math.Abs(close - open),
		UpperWick: math.Max(high-math.Max(open, close), 0),
		LowerWick: math.Max(math.Min(open, close)-low, 0),
	}
	if s.Range > 0 {
		s.BodyRatio = s.Body / s.Range
	}
	s.BodyVsWicks = s.Body / (s.UpperWick + s.LowerWick + eps)
	return s
}

// Classify labels a candle. It is total: every input, including NaN
// thresholds, yields exactly one label.
func Classify(open, high, low, close float64, th Thresholds) model.Pattern {
	s := Measure(open, high, low, close, th.Epsilon)
	if s.Range < th.Epsilon || s.Range == 0 {
		return model.PatternUnknown
	}

	// Doji dominates every other rule.
	if s.BodyRatio <= th.DojiBodyRatio {
		return model.PatternDoji
	}

	bullish := close > open
	if s.BodyRatio < th.BodyWickRatioShort {
		if s.LowerWick > 0 && s.LowerWick/(s.UpperWick+th.Epsilon) >= th.UpperVsLowerRatio {
			if bullish {
				return model.PatternBullishHammer
			}
			return model.PatternBearishHammer
		}
		if s.UpperWick > 0 && s.UpperWick/(s.LowerWick+th.Epsilon) >= th.UpperVsLowerRatio {
			if bullish {
				return model.PatternBullishShootingStar
			}
			return model.PatternBearishShootingStar
		}
	}

	if s.BodyRatio >= th.BodyWickRatioLong {
		switch {
		case bullish:
			return model.PatternBullishLongBody
		case close < open:
			return model.PatternBearishLongBody
		default:
			return model.PatternNeutralLongBody
		}
	}

	switch {
	case bullish:
		return model.PatternMildBullish
	case close < open:
		return model.PatternMildBearish
	default:
		return model.PatternNeutral
	}
}

// ClassifyBar measures and labels one input bar.
func ClassifyBar(b model.Bar, th Thresholds) model.BarPattern {
	s := Measure(b.Open, b.High, b.Low, b.Close, th.Epsilon)
	return model.BarPattern{
		Timestamp:   b.Timestamp,
		Open:        b.Open,
		High:        b.High,
		Low:         b.Low,
		Close:       b.Close,
		Volume:      b.Volume,
		Body:        s.Body,
		UpperWick:   s.UpperWick,
		LowerWick:   s.LowerWick,
		BodyRatio:   s.BodyRatio,
		BodyVsWicks: s.BodyVsWicks,
		Pattern:     Classify(b.Open, b.High, b.Low, b.Close, th),
	}
}
