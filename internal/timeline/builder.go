package timeline

import "math"

// DefaultGapSeconds is the silence between consecutive segments.
const DefaultGapSeconds = 0.25

// Entry is one interval on the rendered timeline.
type Entry struct {
	Start    float64
	End      float64
	Headline string
	Summary  string
	Text     string
}

// Duration returns the entry's length in seconds.
func (e Entry) Duration() float64 { return e.End - e.Start }

// Options controls timeline layout.
type Options struct {
	// GapSeconds is the silence inserted after every segment except the last.
	// Negative values are treated as zero.
	GapSeconds float64
}

// DefaultOptions returns the layout used by the daily pipeline.
func DefaultOptions() Options {
	return Options{GapSeconds: DefaultGapSeconds}
}

// Build lays segments out sequentially: each entry starts where the previous
// one ended plus the gap. The input order is preserved.
func Build(segments []Segment, opts Options) ([]Entry, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyTimeline
	}
	gap := opts.GapSeconds
	if gap < 0 || math.IsNaN(gap) || math.IsInf(gap, 0) {
		gap = 0
	}

	entries := make([]Entry, 0, len(segments))
	var cursor float64
	for i, seg := range segments {
		if !validDuration(seg.Duration) {
			return nil, &SegmentError{Index: i + 1, Reason: "duration must be positive", Err: ErrInvalidSegment}
		}
		start := cursor
		end := cursor + seg.Duration
		entries = append(entries, Entry{
			Start:    start,
			End:      end,
			Headline: seg.Headline,
			Summary:  seg.Summary,
			Text:     seg.Text,
		})
		cursor = end + gap
	}
	return entries, nil
}

// Total returns the end time of the last entry, or zero for an empty timeline.
func Total(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].End
}
