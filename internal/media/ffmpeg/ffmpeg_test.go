package ffmpeg

import (
	"context"
	"slices"
	"strings"
	"testing"
)

func TestConcatArgsPadsAllButLastClip(t *testing.T) {
	args, err := ConcatArgs([]string{"a.mp3", "b.mp3", "c.mp3"}, 0.25, "out.mp3")
	if err != nil {
		t.Fatalf("ConcatArgs: %v", err)
	}
	idx := slices.Index(args, "-filter_complex")
	if idx < 0 {
		t.Fatalf("missing filter_complex in %v", args)
	}
	graph := args[idx+1]
	if got := strings.Count(graph, "apad=pad_dur=0.250"); got != 2 {
		t.Fatalf("expected 2 padded clips, got %d in %s", got, graph)
	}
	if !strings.HasSuffix(graph, "[a0][a1][a2]concat=n=3:v=0:a=1[out]") {
		t.Fatalf("unexpected concat tail: %s", graph)
	}
	if args[len(args)-1] != "out.mp3" {
		t.Fatalf("expected output last, got %v", args)
	}
}

func TestConcatArgsZeroGap(t *testing.T) {
	args, err := ConcatArgs([]string{"a.mp3", "b.mp3"}, -1, "out.mp3")
	if err != nil {
		t.Fatalf("ConcatArgs: %v", err)
	}
	if strings.Contains(strings.Join(args, " "), "apad") {
		t.Fatalf("expected no padding for negative gap: %v", args)
	}
}

func TestConcatArgsRequiresInputs(t *testing.T) {
	if _, err := ConcatArgs(nil, 0.25, "out.mp3"); err == nil {
		t.Fatal("expected error for empty inputs")
	}
	if _, err := ConcatArgs([]string{"a.mp3"}, 0.25, " "); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestSilenceUsesRunner(t *testing.T) {
	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}
	if err := Silence(context.Background(), run, "", 1.5, "gap.mp3"); err != nil {
		t.Fatalf("Silence: %v", err)
	}
	if gotName != DefaultBinary {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "anullsrc") || !strings.Contains(joined, "-t 1.500") {
		t.Fatalf("unexpected args: %s", joined)
	}
	if err := Silence(context.Background(), run, "", 0, "gap.mp3"); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestEscapeFilterValue(t *testing.T) {
	got := EscapeFilterValue(`/tmp/it's: a,b`)
	want := `/tmp/it\'s\: a\,b`
	if got != want {
		t.Fatalf("EscapeFilterValue = %q, want %q", got, want)
	}
}
