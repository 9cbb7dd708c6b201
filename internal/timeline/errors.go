package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSegment reports empty narration text or a non-positive duration.
	ErrInvalidSegment = errors.New("invalid narration segment")
	// ErrEmptyTimeline reports a layout request with no segments.
	ErrEmptyTimeline = errors.New("empty timeline")
)

// SegmentError identifies the 1-based segment that failed validation.
type SegmentError struct {
	Index  int
	Reason string
	Err    error
}

func (e *SegmentError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("segment %d: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }
