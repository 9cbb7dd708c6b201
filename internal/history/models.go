package history

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusReview marks failures caused by input or configuration that need
	// an operator before the next run.
	StatusReview Status = "review"
)

var allStatuses = []Status{StatusRunning, StatusCompleted, StatusFailed, StatusReview}

// ParseStatus converts a stored value to a Status.
func ParseStatus(value string) (Status, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, s := range allStatuses {
		if string(s) == value {
			return s, true
		}
	}
	return "", false
}

// Terminal reports whether the run has finished.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusReview
}

// Run is one row of the ledger.
type Run struct {
	ID              string
	Date            string
	Status          Status
	Stage           string
	StartedAt       time.Time
	FinishedAt      time.Time
	ItemCount       int
	SegmentCount    int
	TimelineSeconds float64
	OutputDir       string
	VideoPath       string
	ShortsPath      string
	VideoID         string
	ShortsID        string
	Warnings        []string
	ErrorMessage    string
}

// Duration is the wall time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
