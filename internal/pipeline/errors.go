package pipeline

import (
	"errors"
	"fmt"

	"newscast/internal/timeline"
)

// ErrRunLocked reports that another process holds the day's output directory.
var ErrRunLocked = errors.New("run already in progress for this date")

// StageError identifies the stage, and the segment when known, that aborted a run.
type StageError struct {
	Stage   string
	Segment int
	Err     error
}

func newStageError(stage string, err error) *StageError {
	se := &StageError{Stage: stage, Err: err}
	var segErr *timeline.SegmentError
	if errors.As(err, &segErr) {
		se.Segment = segErr.Index
	}
	return se
}

func (e *StageError) Error() string {
	if e.Segment > 0 {
		return fmt.Sprintf("stage %s (segment %d): %v", e.Stage, e.Segment, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
