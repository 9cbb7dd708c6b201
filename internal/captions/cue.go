package captions

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"newscast/internal/timeline"
)

// Cue is a single subtitle interval.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Source selects which entry text becomes the caption.
type Source string

const (
	SourceNarration Source = "narration"
	SourceHeadline  Source = "headline"
)

// Granularity selects how many cues each timeline entry produces.
type Granularity string

const (
	GranularitySegment  Granularity = "segment"
	GranularitySentence Granularity = "sentence"
)

// Options controls cue derivation.
type Options struct {
	Source      Source
	Granularity Granularity
}

// ParseSource validates a configured caption source.
func ParseSource(value string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(value))) {
	case "", SourceNarration:
		return SourceNarration, nil
	case SourceHeadline:
		return SourceHeadline, nil
	default:
		return "", fmt.Errorf("caption source: unsupported value %q", value)
	}
}

// ParseGranularity validates a configured caption granularity.
func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(value))) {
	case "", GranularitySegment:
		return GranularitySegment, nil
	case GranularitySentence:
		return GranularitySentence, nil
	default:
		return "", fmt.Errorf("caption granularity: unsupported value %q", value)
	}
}

// FromTimeline derives cues from timeline entries. Entries whose selected
// text is empty are skipped; the remaining cues are numbered from 1.
func FromTimeline(entries []timeline.Entry, opts Options) []Cue {
	cues := make([]Cue, 0, len(entries))
	for _, entry := range entries {
		text := entry.Text
		if opts.Source == SourceHeadline {
			text = entry.Headline
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if opts.Granularity == GranularitySentence {
			cues = append(cues, splitSentences(entry.Start, entry.End, text)...)
			continue
		}
		cues = append(cues, Cue{Start: entry.Start, End: entry.End, Text: text})
	}
	for i := range cues {
		cues[i].Index = i + 1
	}
	return cues
}

// splitSentences divides [start, end] across sentences in proportion to their
// rune counts. Cues are contiguous and the last one ends exactly at end.
func splitSentences(start, end float64, text string) []Cue {
	sentences := Sentences(text)
	if len(sentences) <= 1 {
		return []Cue{{Start: start, End: end, Text: text}}
	}
	total := 0
	weights := make([]int, len(sentences))
	for i, s := range sentences {
		weights[i] = utf8.RuneCountInString(s)
		total += weights[i]
	}
	span := end - start
	cues := make([]Cue, 0, len(sentences))
	cursor := start
	seen := 0
	for i, s := range sentences {
		seen += weights[i]
		cueEnd := start + span*float64(seen)/float64(total)
		if i == len(sentences)-1 {
			cueEnd = end
		}
		cues = append(cues, Cue{Start: cursor, End: cueEnd, Text: s})
		cursor = cueEnd
	}
	return cues
}

// Sentences splits text after terminal punctuation (. ! ? and their
// full-width forms) that is followed by whitespace or the end of text.
func Sentences(text string) []string {
	var out []string
	runes := []rune(strings.TrimSpace(text))
	begin := 0
	for i, r := range runes {
		if !isTerminal(r) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[begin : i+1])); s != "" {
			out = append(out, s)
		}
		begin = i + 1
	}
	if begin < len(runes) {
		if s := strings.TrimSpace(string(runes[begin:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}
