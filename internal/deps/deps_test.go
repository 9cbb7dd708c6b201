package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}
	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestMediaRequirementsDefaultsAndMissing(t *testing.T) {
	reqs := MediaRequirements("", "/opt/ffprobe")
	if reqs[0].Command != "ffmpeg" || reqs[1].Command != "/opt/ffprobe" {
		t.Fatalf("unexpected commands %#v", reqs)
	}
	if reqs[0].Optional || !reqs[1].Optional {
		t.Fatalf("ffmpeg must be required and ffprobe optional: %#v", reqs)
	}

	t.Setenv("PATH", "")
	missing := Missing(CheckBinaries(MediaRequirements("", "")))
	if len(missing) != 1 || missing[0].Name != "FFmpeg" {
		t.Fatalf("expected only ffmpeg to be reported missing, got %#v", missing)
	}
}
