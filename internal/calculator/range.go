package calculator

import "math"

// Extremes tracks the running high and low of a sequence together with the
// label of the element that first reached each extreme. Later elements only
// take over on a strictly better value, so ties keep the first label.
type Extremes[L any] struct {
	High   float64
	Low    float64
	HighAt L
	LowAt  L
	Count  int
}

// NewExtremes returns an empty tracker.
func NewExtremes[L any]() Extremes[L] {
	return Extremes[L]{High: math.Inf(-1), Low: math.Inf(1)}
}

// Observe feeds one element's high and low.
func (e *Extremes[L]) Observe(high, low float64, at L) {
	e.ObserveHigh(high, at)
	e.ObserveLow(low, at)
	e.Count++
}

// ObserveEach feeds one element whose high and low carry different labels.
func (e *Extremes[L]) ObserveEach(high float64, highAt L, low float64, lowAt L) {
	e.ObserveHigh(high, highAt)
	e.ObserveLow(low, lowAt)
	e.Count++
}

// ObserveHigh feeds a high without counting an element.
func (e *Extremes[L]) ObserveHigh(high float64, at L) {
	if high > e.High {
		e.High = high
		e.HighAt = at
	}
}

// ObserveLow feeds a low without counting an element.
func (e *Extremes[L]) ObserveLow(low float64, at L) {
	if low < e.Low {
		e.Low = low
		e.LowAt = at
	}
}

// Empty reports whether nothing has been observed.
func (e *Extremes[L]) Empty() bool {
	return e.Count == 0
}
