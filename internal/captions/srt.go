package captions

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"newscast/internal/fileutil"
)

// ErrInvalidInterval reports a cue whose end is not after its start once
// both are floored to the millisecond.
var ErrInvalidInterval = errors.New("invalid caption interval")

// driftToleranceSeconds is how far the last cue may sit from the video end
// before Validate flags it.
const driftToleranceSeconds = 2.0

// Serialize renders cues as an SRT document. Cues are renumbered from 1 in
// the given order.
func Serialize(cues []Cue) ([]byte, error) {
	var buf bytes.Buffer
	for i, cue := range cues {
		if math.IsNaN(cue.Start) || math.IsNaN(cue.End) || cue.Start < 0 || !(cue.End > cue.Start) {
			return nil, fmt.Errorf("cue %d (%.3f --> %.3f): %w", i+1, cue.Start, cue.End, ErrInvalidInterval)
		}
		start, end := FormatTimestamp(cue.Start), FormatTimestamp(cue.End)
		if start == end {
			return nil, fmt.Errorf("cue %d (%s --> %s): shorter than a millisecond: %w", i+1, start, end, ErrInvalidInterval)
		}
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteByte('\n')
		buf.WriteString(start)
		buf.WriteString(" --> ")
		buf.WriteString(end)
		buf.WriteByte('\n')
		buf.WriteString(normalizeText(cue.Text))
		buf.WriteString("\n\n")
	}
	return buf.Bytes(), nil
}

// Write serializes cues and writes them atomically to path.
func Write(path string, cues []Cue) error {
	data, err := Serialize(cues)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm, flooring to the
// millisecond. A 1µs tolerance absorbs binary representation error so that
// values such as 1.005 land on 1,005 rather than 1,004.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*1000 + 1e-3))
	ms := total % 1000
	s := (total / 1000) % 60
	m := (total / 60000) % 60
	h := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp converts an SRT timestamp to seconds. A period is accepted in
// place of the comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Parse reads an SRT document back into cues.
func Parse(data []byte) ([]Cue, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	var cues []Cue
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("cue %d: truncated block", len(cues)+1)
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, fmt.Errorf("cue %d: invalid index %q", len(cues)+1, lines[0])
		}
		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			return nil, fmt.Errorf("cue %d: invalid timing line %q", index, lines[1])
		}
		start, err := ParseTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", index, err)
		}
		end, err := ParseTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", index, err)
		}
		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}
	return cues, nil
}

// Validate re-reads an SRT file and returns a list of issues; an empty slice
// means the file passed. videoSeconds enables the end-drift check when > 0.
func Validate(path string, videoSeconds float64) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	cues, err := Parse(data)
	if err != nil {
		return []string{fmt.Sprintf("parse_error: %v", err)}
	}
	if len(cues) == 0 {
		return []string{"empty_subtitle_file"}
	}

	var issues []string
	var last float64
	for i, cue := range cues {
		if cue.Index != i+1 {
			issues = append(issues, fmt.Sprintf("index_out_of_order: cue %d has index %d", i+1, cue.Index))
		}
		if !(cue.End > cue.Start) {
			issues = append(issues, fmt.Sprintf("non_positive_interval: cue %d", cue.Index))
		}
		if i > 0 && cue.Start < cues[i-1].End {
			issues = append(issues, fmt.Sprintf("overlap: cue %d starts before cue %d ends", cue.Index, cues[i-1].Index))
		}
		if cue.End > last {
			last = cue.End
		}
	}
	if videoSeconds > 0 {
		if delta := videoSeconds - last; math.Abs(delta) > driftToleranceSeconds {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", delta))
		}
	}
	return issues
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
