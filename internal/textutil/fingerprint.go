package textutil

import (
	"math"
	"strings"
	"unicode"
)

// Fingerprint is a term-frequency vector for similarity comparison.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint for text. It returns nil when text has
// no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	terms := Terms(text)
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{terms: counts, norm: math.Sqrt(norm)}
}

// Words splits text into lowercase runs of letters and digits.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Terms returns the character bigrams of every word in text.
func Terms(text string) []string {
	var terms []string
	for _, word := range Words(text) {
		runes := []rune(word)
		if len(runes) == 1 {
			terms = append(terms, word)
			continue
		}
		for i := 0; i+1 < len(runes); i++ {
			terms = append(terms, string(runes[i:i+2]))
		}
	}
	return terms
}

// TermCount returns the number of distinct terms.
func (f *Fingerprint) TermCount() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 if
// either is nil.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	if len(b.terms) < len(a.terms) {
		a, b = b, a
	}
	var dot float64
	for term, count := range a.terms {
		dot += count * b.terms[term]
	}
	return dot / (a.norm * b.norm)
}

// Similar reports whether a and b are at least threshold similar.
func Similar(a, b string, threshold float64) bool {
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b)) >= threshold
}
