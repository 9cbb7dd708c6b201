package timeline

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Segment is an ordered unit of narration. Order is spoken order.
type Segment struct {
	Text     string
	Duration float64
	Headline string
	Summary  string
}

// NewSegment validates text and duration and returns an immutable segment value.
func NewSegment(text string, duration float64, headline, summary string) (Segment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Segment{}, &SegmentError{Reason: "empty narration text", Err: ErrInvalidSegment}
	}
	if !validDuration(duration) {
		return Segment{}, &SegmentError{Reason: "duration must be positive", Err: ErrInvalidSegment}
	}
	return Segment{
		Text:     text,
		Duration: duration,
		Headline: strings.TrimSpace(headline),
		Summary:  strings.TrimSpace(summary),
	}, nil
}

// Unit selects what the heuristic estimator counts.
type Unit string

const (
	UnitWord Unit = "word"
	UnitChar Unit = "char"
)

const (
	DefaultSecondsPerWord = 0.5
	DefaultSecondsPerChar = 0.1
	DefaultMinSeconds     = 1.0
)

// Estimator produces spoken-duration estimates for narration text.
type Estimator struct {
	Unit           Unit
	SecondsPerUnit float64
	MinSeconds     float64
}

// DefaultEstimator returns the word-based estimator used when nothing is configured.
func DefaultEstimator() Estimator {
	return Estimator{Unit: UnitWord, SecondsPerUnit: DefaultSecondsPerWord, MinSeconds: DefaultMinSeconds}
}

// Estimate returns the heuristic duration of text in seconds. The result is
// never below the configured floor (and never below one second when the
// floor is unset).
func (e Estimator) Estimate(text string) (float64, error) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return 0, &SegmentError{Reason: "empty narration text", Err: ErrInvalidSegment}
	}
	unit, rate, floor := e.normalized()
	var count int
	switch unit {
	case UnitChar:
		count = utf8.RuneCountInString(strings.Join(strings.Fields(text), ""))
	default:
		count = len(strings.Fields(text))
	}
	return math.Max(float64(count)*rate, floor), nil
}

// Resolve prefers a measured duration and falls back to Estimate when the
// measurement is absent (zero), negative, or not a number.
func (e Estimator) Resolve(text string, measured float64) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, &SegmentError{Reason: "empty narration text", Err: ErrInvalidSegment}
	}
	if validDuration(measured) {
		return measured, nil
	}
	return e.Estimate(text)
}

func (e Estimator) normalized() (Unit, float64, float64) {
	unit := e.Unit
	if unit != UnitChar {
		unit = UnitWord
	}
	rate := e.SecondsPerUnit
	if !validDuration(rate) {
		if unit == UnitChar {
			rate = DefaultSecondsPerChar
		} else {
			rate = DefaultSecondsPerWord
		}
	}
	floor := e.MinSeconds
	if !validDuration(floor) || floor < DefaultMinSeconds {
		floor = DefaultMinSeconds
	}
	return unit, rate, floor
}

func validDuration(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
