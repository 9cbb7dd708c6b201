package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"newscast/internal/fileutil"
	"newscast/internal/logging"
	"newscast/internal/media/ffmpeg"
	"newscast/internal/timeline"
)

// FallbackColor fills the canvas when no background image is available.
const FallbackColor = "0x0F122D"

const barColor = "black@0.55"

// Job describes one video render.
type Job struct {
	Mode            Mode
	Resolution      Resolution
	Title           string
	Entries         []timeline.Entry
	AudioPath       string
	CaptionPath     string
	BackgroundImage string
	FontFile        string
	FPS             int
	OutputPath      string
	// WorkDir receives the overlay text files. Defaults to the output directory.
	WorkDir string
}

// Result reports what was rendered.
type Result struct {
	OutputPath string
	Layouts    []Layout
	// UsedFallbackBackground is set when the solid colour replaced a missing image.
	UsedFallbackBackground bool
}

// Compositor renders briefing videos with ffmpeg.
type Compositor struct {
	logger *slog.Logger
	binary string
	mapper *Mapper
	run    ffmpeg.CommandRunner
}

// NewCompositor constructs a compositor. A nil mapper uses the default clamp bounds.
func NewCompositor(binary string, mapper *Mapper, logger *slog.Logger) *Compositor {
	if mapper == nil {
		mapper = defaultMapper
	}
	return &Compositor{
		logger: logging.NewComponentLogger(logger, "compositor"),
		binary: ffmpeg.Binary(binary),
		mapper: mapper,
		run:    ffmpeg.Run,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Compositor) WithCommandRunner(r ffmpeg.CommandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// Compose renders job.OutputPath. The file is written to a temporary name and
// renamed on success.
func (c *Compositor) Compose(ctx context.Context, job Job) (Result, error) {
	if c == nil {
		return Result{}, errors.New("compositor not initialized")
	}
	if len(job.Entries) == 0 {
		return Result{}, timeline.ErrEmptyTimeline
	}
	if strings.TrimSpace(job.OutputPath) == "" {
		return Result{}, errors.New("output path is required")
	}
	if _, err := os.Stat(job.AudioPath); err != nil {
		return Result{}, fmt.Errorf("narration audio: %w", err)
	}
	if job.CaptionPath != "" {
		if _, err := os.Stat(job.CaptionPath); err != nil {
			return Result{}, fmt.Errorf("caption file: %w", err)
		}
	}

	layouts := make([]Layout, 0, len(job.Entries))
	for i, entry := range job.Entries {
		layout, err := c.mapper.Map(job.Resolution, job.Mode, entry, i+1)
		if err != nil {
			return Result{}, fmt.Errorf("layout entry %d: %w", i+1, err)
		}
		layouts = append(layouts, layout)
	}

	useImage := job.BackgroundImage != "" && fileutil.FileExists(job.BackgroundImage)
	if job.BackgroundImage != "" && !useImage {
		logging.WarnWithContext(c.logger, "background image missing; using solid colour", "background_fallback",
			logging.String("background_image", job.BackgroundImage),
			logging.String(logging.FieldErrorHint, "check video.background_image"),
		)
	}

	workDir := job.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(job.OutputPath)
	}
	overlays, err := writeOverlayText(workDir, job, layouts)
	if err != nil {
		return Result{}, err
	}

	tmpPath := filepath.Join(filepath.Dir(job.OutputPath), ".compose-"+filepath.Base(job.OutputPath)+".tmp")
	args := BuildArgs(job, layouts, overlays, useImage, tmpPath)

	c.logger.Debug("executing ffmpeg compose",
		logging.String("mode", string(job.Mode)),
		logging.String("resolution", job.Resolution.String()),
		logging.Int("entry_count", len(job.Entries)),
		logging.Bool("background_image", useImage),
	)
	if err := c.run(ctx, c.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, fmt.Errorf("ffmpeg compose: %w", err)
	}
	if ok, _ := fileutil.NonEmptyFile(tmpPath); !ok {
		_ = os.Remove(tmpPath)
		return Result{}, errors.New("ffmpeg did not produce output file")
	}
	if err := os.Rename(tmpPath, job.OutputPath); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, fmt.Errorf("finalize video: %w", err)
	}

	c.logger.Info("video rendered",
		logging.String(logging.FieldEventType, "video_rendered"),
		logging.String("video_path", job.OutputPath),
		logging.String("mode", string(job.Mode)),
		logging.Float64("timeline_seconds", timeline.Total(job.Entries)),
	)
	return Result{OutputPath: job.OutputPath, Layouts: layouts, UsedFallbackBackground: !useImage}, nil
}

// overlayFiles holds the drawtext textfile paths. Headline and summary slices
// are indexed like the layouts; empty paths mean no overlay.
type overlayFiles struct {
	title     string
	headlines []string
	summaries []string
}

func writeOverlayText(dir string, job Job, layouts []Layout) (overlayFiles, error) {
	prefix := "overlay_" + string(job.Mode)
	out := overlayFiles{
		headlines: make([]string, len(layouts)),
		summaries: make([]string, len(layouts)),
	}
	write := func(name, text string) (string, error) {
		path := filepath.Join(dir, name)
		if err := fileutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
			return "", fmt.Errorf("write overlay text: %w", err)
		}
		return path, nil
	}
	var err error
	if title := strings.TrimSpace(job.Title); title != "" {
		if out.title, err = write(prefix+"_title.txt", title); err != nil {
			return overlayFiles{}, err
		}
	}
	for i, layout := range layouts {
		entry := job.Entries[i]
		if headline := strings.TrimSpace(entry.Headline); headline != "" {
			name := fmt.Sprintf("%s_%02d_headline.txt", prefix, layout.Index)
			if out.headlines[i], err = write(name, headline); err != nil {
				return overlayFiles{}, err
			}
		}
		if summary := strings.TrimSpace(entry.Summary); summary != "" {
			name := fmt.Sprintf("%s_%02d_summary.txt", prefix, layout.Index)
			if out.summaries[i], err = write(name, Wrap(summary, layout.SummaryWrap)); err != nil {
				return overlayFiles{}, err
			}
		}
	}
	return out, nil
}

// BuildArgs assembles the ffmpeg arguments for job. It performs no I/O.
func BuildArgs(job Job, layouts []Layout, overlays overlayFiles, useImage bool, out string) []string {
	res := job.Resolution
	fps := job.FPS
	if fps <= 0 {
		fps = 30
	}
	args := ffmpeg.BaseArgs()
	if useImage {
		args = append(args, "-loop", "1", "-framerate", strconv.Itoa(fps), "-i", job.BackgroundImage)
	} else {
		args = append(args, "-f", "lavfi", "-i", fmt.Sprintf("color=c=%s:s=%s:r=%d", FallbackColor, res, fps))
	}
	args = append(args, "-i", job.AudioPath)
	hasCaptions := job.CaptionPath != ""
	if hasCaptions {
		args = append(args, "-i", job.CaptionPath)
	}

	args = append(args,
		"-filter_complex", videoFilter(job, layouts, overlays, useImage),
		"-map", "[v]",
		"-map", "1:a",
	)
	if hasCaptions {
		args = append(args, "-map", "2:s", "-c:s", "mov_text", "-metadata:s:s:0", "language=kor")
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(fps),
		"-c:a", "aac",
		"-b:a", "160k",
		"-shortest",
		"-movflags", "+faststart",
		"-f", "mp4",
		out,
	)
	return args
}

func videoFilter(job Job, layouts []Layout, overlays overlayFiles, useImage bool) string {
	res := job.Resolution
	var filters []string
	if useImage {
		filters = append(filters,
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", res.Width, res.Height),
			fmt.Sprintf("crop=%d:%d", res.Width, res.Height),
			"setsar=1",
		)
	}
	first := layouts[0]
	filters = append(filters,
		fmt.Sprintf("drawbox=x=0:y=0:w=iw:h=%d:color=%s:t=fill", first.TopBarHeight, barColor),
		fmt.Sprintf("drawbox=x=0:y=ih-%d:w=iw:h=%d:color=%s:t=fill", first.BottomBarHeight, first.BottomBarHeight, barColor),
	)
	if overlays.title != "" {
		filters = append(filters, drawText(job.FontFile, overlays.title, first.TitleFontSize, first.Margin, first.TitleY, "", "white"))
	}
	for i, layout := range layouts {
		enable := fmt.Sprintf("between(t,%s,%s)", ffmpeg.Seconds(layout.Start), ffmpeg.Seconds(layout.End()))
		if path := overlays.headlines[i]; path != "" {
			filters = append(filters, drawText(job.FontFile, path, layout.HeadlineSize, layout.Margin, layout.HeadlineY, enable, "white"))
		}
		if path := overlays.summaries[i]; path != "" {
			filters = append(filters, drawText(job.FontFile, path, layout.SummarySize, layout.Margin, layout.SummaryY, enable, "0xE6E6E6"))
		}
	}
	return "[0:v]" + strings.Join(filters, ",") + "[v]"
}

func drawText(fontFile, textFile string, size, x, y int, enable, color string) string {
	var b strings.Builder
	b.WriteString("drawtext=")
	if fontFile != "" {
		fmt.Fprintf(&b, "fontfile=%s:", ffmpeg.EscapeFilterValue(fontFile))
	}
	fmt.Fprintf(&b, "textfile=%s:fontsize=%d:fontcolor=%s:x=%d:y=%d:line_spacing=8:expansion=none", ffmpeg.EscapeFilterValue(textFile), size, color, x, y)
	if enable != "" {
		fmt.Fprintf(&b, ":enable='%s'", enable)
	}
	return b.String()
}

// Wrap breaks text into lines of at most width runes, splitting on spaces
// where possible. Width <= 0 returns the text unchanged.
func Wrap(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return text
	}
	var lines []string
	var line []rune
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}
	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > width {
			flush()
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		switch {
		case len(line) == 0:
			line = append(line, runes...)
		case len(line)+1+len(runes) <= width:
			line = append(line, ' ')
			line = append(line, runes...)
		default:
			flush()
			line = append(line, runes...)
		}
	}
	flush()
	return strings.Join(lines, "\n")
}
