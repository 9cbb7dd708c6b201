package services

import (
	"fmt"
	"strings"
)

// Warning records a degraded step: the run continued with substitute data
// and the operator should know.
type Warning struct {
	Stage string `json:"stage"`
	// Index is the 1-based item or segment number, or zero when not applicable.
	Index   int    `json:"index,omitempty"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// NewWarning builds a warning, flattening err to its message.
func NewWarning(stage string, index int, message string, err error) Warning {
	w := Warning{Stage: stage, Index: index, Message: strings.TrimSpace(message)}
	if err != nil {
		w.Cause = err.Error()
	}
	return w
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Stage)
	if w.Index > 0 {
		fmt.Fprintf(&b, " #%d", w.Index)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	if w.Cause != "" {
		b.WriteString(" (")
		b.WriteString(w.Cause)
		b.WriteString(")")
	}
	return b.String()
}

// WarningStrings renders warnings for storage and notifications.
func WarningStrings(warnings []Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
