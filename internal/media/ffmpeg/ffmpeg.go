package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is used when no ffmpeg path is configured.
const DefaultBinary = "ffmpeg"

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Run executes name with args and folds stderr into the returned error.
func Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", name, err, lastLines(stderr.String(), 5))
	}
	return nil
}

// BaseArgs are prepended to every ffmpeg invocation.
func BaseArgs() []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error", "-nostdin"}
}

// Binary returns the configured binary or the default.
func Binary(configured string) string {
	if b := strings.TrimSpace(configured); b != "" {
		return b
	}
	return DefaultBinary
}

// Seconds formats a duration for filter expressions with fixed precision so
// generated arguments are stable across runs.
func Seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// EscapeFilterValue quotes a value for use inside a filtergraph option.
func EscapeFilterValue(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `,`, `\,`, `[`, `\[`, `]`, `\]`, `;`, `\;`)
	return replacer.Replace(value)
}

// Silence writes a silent mono MP3 of the given length.
func Silence(ctx context.Context, run CommandRunner, binary string, seconds float64, out string) error {
	if run == nil {
		run = Run
	}
	if !(seconds > 0) {
		return fmt.Errorf("silence: duration must be positive, got %v", seconds)
	}
	if strings.TrimSpace(out) == "" {
		return errors.New("silence: output path is required")
	}
	args := append(BaseArgs(),
		"-f", "lavfi",
		"-i", "anullsrc=r=24000:cl=mono",
		"-t", Seconds(seconds),
		"-c:a", "libmp3lame",
		"-b:a", "64k",
		out,
	)
	return run(ctx, Binary(binary), args...)
}

// ConcatArgs builds the filtergraph that joins audio clips in order, padding
// every clip except the last with gap seconds of silence.
func ConcatArgs(parts []string, gap float64, out string) ([]string, error) {
	if len(parts) == 0 {
		return nil, errors.New("concat: no input clips")
	}
	if strings.TrimSpace(out) == "" {
		return nil, errors.New("concat: output path is required")
	}
	if gap < 0 {
		gap = 0
	}
	args := BaseArgs()
	for _, part := range parts {
		args = append(args, "-i", part)
	}
	var graph strings.Builder
	for i := range parts {
		fmt.Fprintf(&graph, "[%d:a]aresample=24000,aformat=channel_layouts=mono", i)
		if i < len(parts)-1 && gap > 0 {
			fmt.Fprintf(&graph, ",apad=pad_dur=%s", Seconds(gap))
		}
		fmt.Fprintf(&graph, "[a%d];", i)
	}
	for i := range parts {
		fmt.Fprintf(&graph, "[a%d]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=0:a=1[out]", len(parts))
	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		out,
	)
	return args, nil
}

// Concat joins clips into out using ConcatArgs.
func Concat(ctx context.Context, run CommandRunner, binary string, parts []string, gap float64, out string) error {
	if run == nil {
		run = Run
	}
	args, err := ConcatArgs(parts, gap, out)
	if err != nil {
		return err
	}
	return run(ctx, Binary(binary), args...)
}

func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
