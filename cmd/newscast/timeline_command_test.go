package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"newscast/internal/captions"
	"newscast/internal/narration"
	"newscast/internal/render"
	"newscast/internal/testsupport"
	"newscast/internal/timeline"
)

const sampleScript = `date: "2026-10-18"
gap_seconds: 0.5
segments:
  - text: 안녕하세요. 오늘의 뉴스입니다.
    headline: 뉴스 브리핑
    duration: 2
  - text: 1번 뉴스. 금리가 동결되었습니다.
    headline: 금리 동결
    summary: 중앙은행이 금리를 동결했다
    duration: 3
  - text: 시청해 주셔서 감사합니다.
    headline: 뉴스 브리핑
`

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "script.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestTimelineCommandPrintsLayoutAndWritesSRT(t *testing.T) {
	env := setupCLITestEnv(t)
	script := writeScript(t, env.baseDir, sampleScript)
	srt := filepath.Join(env.baseDir, "out", "captions.srt")

	out, _, err := runCLI(t, []string{"timeline", script, "--srt", srt}, env.configPath)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	requireContains(t, out, "landscape 1920x1080, 3 segments")
	requireContains(t, out, "00:00:02,500")
	requireContains(t, out, "금리 동결")
	requireContains(t, out, "Wrote 3 cues")

	data, err := os.ReadFile(srt)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	cues, err := captions.Parse(data)
	if err != nil {
		t.Fatalf("parse srt: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if math.Abs(cues[1].Start-2.5) > 1e-9 || math.Abs(cues[1].End-5.5) > 1e-9 {
		t.Fatalf("unexpected second cue interval [%v, %v]", cues[1].Start, cues[1].End)
	}
	if math.Abs(cues[2].Start-6.0) > 1e-9 {
		t.Fatalf("expected third cue to start at 6.0, got %v", cues[2].Start)
	}
}

func TestTimelineCommandShortsMode(t *testing.T) {
	env := setupCLITestEnv(t)
	script := writeScript(t, env.baseDir, sampleScript)

	out, _, err := runCLI(t, []string{"timeline", script, "--mode", "shorts"}, env.configPath)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	requireContains(t, out, "shorts 1080x1920")
}

func TestTimelineCommandRejectsUnknownMode(t *testing.T) {
	env := setupCLITestEnv(t)
	script := writeScript(t, env.baseDir, sampleScript)

	if _, _, err := runCLI(t, []string{"timeline", script, "--mode", "square"}, env.configPath); err == nil {
		t.Fatal("expected unknown mode to fail")
	}
}

func TestScriptTimelineUsesConfiguredGapAndEstimator(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Narration.GapSeconds = 1
	cfg.Narration.EstimatorUnit = string(timeline.UnitWord)
	cfg.Narration.SecondsPerUnit = 0.5
	cfg.Narration.MinSeconds = 1

	sf := narration.ScriptFile{Script: narration.Script{Lines: []narration.Line{
		{Text: "one two three four", Duration: 0},
		{Text: "five", Duration: 4},
	}}}
	entries, err := scriptTimeline(cfg, sf)
	if err != nil {
		t.Fatalf("scriptTimeline: %v", err)
	}
	if entries[0].End != 2 {
		t.Fatalf("expected estimated first segment to end at 2, got %v", entries[0].End)
	}
	if entries[1].Start != 3 || entries[1].End != 7 {
		t.Fatalf("unexpected second entry [%v, %v]", entries[1].Start, entries[1].End)
	}
}

func TestScriptTimelineReportsSegmentIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sf := narration.ScriptFile{Script: narration.Script{Lines: []narration.Line{
		{Text: "fine", Duration: 1},
		{Text: "   ", Duration: 1},
	}}}
	_, err := scriptTimeline(cfg, sf)
	var segErr *timeline.SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("expected SegmentError, got %v", err)
	}
	if segErr.Index != 2 {
		t.Fatalf("expected index 2, got %d", segErr.Index)
	}
	if !errors.Is(err, timeline.ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
}

func TestScriptLayoutsUseOneBasedIndex(t *testing.T) {
	entries := []timeline.Entry{
		{Start: 0, End: 2, Headline: "뉴스 브리핑"},
		{Start: 2.5, End: 5.5, Headline: "금리 동결"},
	}
	mapper, err := render.NewMapper(render.DefaultMinDisplaySeconds, render.DefaultMaxDisplaySeconds)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	layouts, err := scriptLayouts(mapper, render.Resolution{Width: 1920, Height: 1080}, render.ModeLandscape, entries)
	if err != nil {
		t.Fatalf("scriptLayouts: %v", err)
	}
	for i, layout := range layouts {
		if layout.Index != i+1 {
			t.Fatalf("layout %d index = %d, want %d", i, layout.Index, i+1)
		}
	}
}
