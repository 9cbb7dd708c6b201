package timeline

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestEstimatorFloor(t *testing.T) {
	estimators := []Estimator{
		DefaultEstimator(),
		{Unit: UnitChar, SecondsPerUnit: 0.1, MinSeconds: 1},
		{Unit: UnitWord, SecondsPerUnit: 0.01, MinSeconds: 0.2},
		{},
	}
	for _, est := range estimators {
		for _, text := range []string{"a", "가", ".", "안녕"} {
			got, err := est.Estimate(text)
			if err != nil {
				t.Fatalf("Estimate(%q): %v", text, err)
			}
			if got < 1.0 {
				t.Fatalf("estimator %+v returned %v for %q, below floor", est, got, text)
			}
		}
	}
}

func TestEstimatorWordRate(t *testing.T) {
	got, err := DefaultEstimator().Estimate("첫 번째 뉴스입니다 오늘은 경제 소식입니다")
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if got != 3.0 {
		t.Fatalf("expected 6 words * 0.5 = 3.0, got %v", got)
	}
}

func TestEstimatorCharRateNormalizesHangul(t *testing.T) {
	est := Estimator{Unit: UnitChar, SecondsPerUnit: 0.1, MinSeconds: 1}
	// "뉴스" written with decomposed jamo still counts as two syllables.
	decomposed := norm.NFD.String("뉴스 뉴스 뉴스 뉴스 뉴스 뉴스")
	got, err := est.Estimate(decomposed)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("expected 12 syllables * 0.1 = 1.2, got %v", got)
	}
}

func TestEstimatorEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := DefaultEstimator().Estimate(text); !errors.Is(err, ErrInvalidSegment) {
			t.Fatalf("Estimate(%q): expected ErrInvalidSegment, got %v", text, err)
		}
	}
}

func TestEstimatorResolvePrefersMeasurement(t *testing.T) {
	est := DefaultEstimator()
	got, err := est.Resolve("한 단어", 4.25)
	if err != nil || got != 4.25 {
		t.Fatalf("expected measured 4.25, got %v (%v)", got, err)
	}
	for _, measured := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		got, err := est.Resolve("한 단어", measured)
		if err != nil {
			t.Fatalf("Resolve(%v): %v", measured, err)
		}
		if got != 1.0 {
			t.Fatalf("Resolve(%v): expected heuristic 1.0, got %v", measured, got)
		}
	}
	if _, err := est.Resolve(" ", 3); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment for empty text, got %v", err)
	}
}

func TestNewSegmentValidates(t *testing.T) {
	if _, err := NewSegment("", 1, "", ""); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment for empty text, got %v", err)
	}
	if _, err := NewSegment("text", 0, "", ""); !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment for zero duration, got %v", err)
	}
	seg, err := NewSegment("  text  ", 2, " Headline ", "")
	if err != nil {
		t.Fatalf("NewSegment: %v", err)
	}
	if seg.Text != "text" || seg.Headline != "Headline" {
		t.Fatalf("expected trimmed fields, got %+v", seg)
	}
}
