package captions

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newscast/internal/timeline"
)

func briefingEntries(t *testing.T) []timeline.Entry {
	t.Helper()
	texts := []string{"안녕하세요.", "첫 번째 뉴스입니다.", "감사합니다."}
	durations := []float64{2.0, 3.0, 1.5}
	segments := make([]timeline.Segment, 0, len(texts))
	for i, text := range texts {
		seg, err := timeline.NewSegment(text, durations[i], "뉴스 브리핑", "")
		if err != nil {
			t.Fatalf("NewSegment: %v", err)
		}
		segments = append(segments, seg)
	}
	entries, err := timeline.Build(segments, timeline.Options{GapSeconds: 0.25})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return entries
}

func TestSerializeBriefingExample(t *testing.T) {
	cues := FromTimeline(briefingEntries(t), Options{})
	got, err := Serialize(cues)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\n안녕하세요.\n\n" +
		"2\n00:00:02,250 --> 00:00:05,250\n첫 번째 뉴스입니다.\n\n" +
		"3\n00:00:05,500 --> 00:00:07,000\n감사합니다.\n\n"
	if string(got) != want {
		t.Fatalf("unexpected SRT:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeIsIdempotent(t *testing.T) {
	cues := []Cue{
		{Start: 0.1, End: 0.7},
		{Start: 1.0049999, End: 2.3333333},
		{Start: 3599.9999, End: 3723.456},
	}
	for i := range cues {
		cues[i].Text = "cue"
	}
	first, err := Serialize(cues)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := Serialize(cues)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected byte-identical output")
	}
}

func TestSerializeRejectsInvalidInterval(t *testing.T) {
	for _, cue := range []Cue{
		{Start: 2, End: 2, Text: "zero"},
		{Start: 3, End: 1, Text: "negative"},
		{Start: -1, End: 1, Text: "before zero"},
		{Start: 1.0001, End: 1.0004, Text: "same millisecond"},
	} {
		_, err := Serialize([]Cue{{Start: 0, End: 1, Text: "ok"}, cue})
		if !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("cue %+v: expected ErrInvalidInterval, got %v", cue, err)
		}
		if !strings.Contains(err.Error(), "cue 2") {
			t.Fatalf("expected cue index in error, got %v", err)
		}
	}
}

func TestSerializeRenumbers(t *testing.T) {
	out, err := Serialize([]Cue{{Index: 7, Start: 0, End: 1, Text: "a"}, {Index: 7, Start: 1, End: 2, Text: "b"}})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	cues, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cues[0].Index != 1 || cues[1].Index != 2 {
		t.Fatalf("expected indices 1,2 got %d,%d", cues[0].Index, cues[1].Index)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:         "00:00:00,000",
		2.25:      "00:00:02,250",
		1.005:     "00:00:01,005",
		0.0009:    "00:00:00,000",
		59.9999:   "00:00:59,999",
		61.5:      "00:01:01,500",
		3723.456:  "01:02:03,456",
		-4:        "00:00:00,000",
		36000.001: "10:00:00,001",
	}
	for in, want := range cases {
		if got := FormatTimestamp(in); got != want {
			t.Fatalf("FormatTimestamp(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("01:02:03,456")
	if err != nil || math.Abs(got-3723.456) > 1e-9 {
		t.Fatalf("unexpected %v (%v)", got, err)
	}
	if got, err := ParseTimestamp("00:00:02.250"); err != nil || got != 2.25 {
		t.Fatalf("period separator: %v (%v)", got, err)
	}
	for _, bad := range []string{"", "00:00:02", "0:2,250", "aa:bb:cc,ddd"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestWriteAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.srt")
	if err := Write(path, FromTimeline(briefingEntries(t), Options{})); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if issues := Validate(path, 7.0); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	issues := Validate(path, 60)
	if len(issues) != 1 || !strings.HasPrefix(issues[0], "duration_mismatch") {
		t.Fatalf("expected drift issue, got %v", issues)
	}
}

func TestValidateFlagsProblems(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.srt")
	if err := os.WriteFile(empty, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if issues := Validate(empty, 0); len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Fatalf("unexpected issues %v", issues)
	}

	broken := filepath.Join(dir, "broken.srt")
	doc := "1\n00:00:00,000 --> 00:00:03,000\na\n\n3\n00:00:02,000 --> 00:00:02,000\nb\n"
	if err := os.WriteFile(broken, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	issues := Validate(broken, 0)
	joined := strings.Join(issues, ";")
	for _, fragment := range []string{"index_out_of_order", "non_positive_interval", "overlap"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %s in %v", fragment, issues)
		}
	}

	if issues := Validate(filepath.Join(dir, "missing.srt"), 0); len(issues) != 1 || !strings.HasPrefix(issues[0], "read_error") {
		t.Fatalf("unexpected issues %v", issues)
	}
}
