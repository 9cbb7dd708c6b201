package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newscast/internal/logging"
	"newscast/internal/media/ffmpeg"
	"newscast/internal/services"
	"newscast/internal/timeline"
)

const stageName = "synthesize"

// Speaker renders text to an audio file.
type Speaker interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

// DurationProber measures an audio file in seconds.
type DurationProber func(ctx context.Context, path string) (float64, error)

// SilenceWriter writes a silent clip of the given length.
type SilenceWriter func(ctx context.Context, seconds float64, outPath string) error

// Part is one synthesized segment.
type Part struct {
	Index    int     `json:"index"`
	Path     string  `json:"path"`
	Text     string  `json:"text"`
	Headline string  `json:"headline,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	Duration float64 `json:"duration"`
	// Measured is false when Duration came from the estimator.
	Measured    bool `json:"measured"`
	Placeholder bool `json:"placeholder,omitempty"`
}

// Synthesizer produces the per-segment clips.
type Synthesizer struct {
	speaker    Speaker
	probe      DurationProber
	silence    SilenceWriter
	estimator  timeline.Estimator
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option customizes a Synthesizer.
type Option func(*Synthesizer)

// WithRetries sets how many times a transient speech failure is retried.
func WithRetries(n int) Option {
	return func(s *Synthesizer) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithRetryDelay sets the pause before a retry.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Synthesizer) { s.retryDelay = d }
}

// WithEstimator replaces the duration estimator.
func WithEstimator(e timeline.Estimator) Option {
	return func(s *Synthesizer) { s.estimator = e }
}

// NewSynthesizer constructs a synthesizer. A nil prober leaves every duration
// to the estimator.
func NewSynthesizer(speaker Speaker, probe DurationProber, silence SilenceWriter, logger *slog.Logger, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		speaker:    speaker,
		probe:      probe,
		silence:    silence,
		estimator:  timeline.DefaultEstimator(),
		retries:    1,
		retryDelay: time.Second,
		logger:     logging.NewComponentLogger(logger, stageName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FFmpegSilence adapts ffmpeg.Silence to a SilenceWriter.
func FFmpegSilence(run ffmpeg.CommandRunner, binary string) SilenceWriter {
	return func(ctx context.Context, seconds float64, out string) error {
		return ffmpeg.Silence(ctx, run, binary, seconds, out)
	}
}

// Synthesize renders every script line into dir. Speech or measurement
// failures degrade to warnings; only a missing placeholder is fatal.
func (s *Synthesizer) Synthesize(ctx context.Context, script Script, dir string) ([]Part, []services.Warning, error) {
	if len(script.Lines) == 0 {
		return nil, nil, timeline.ErrEmptyTimeline
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create audio directory: %w", err)
	}

	parts := make([]Part, 0, len(script.Lines))
	var warnings []services.Warning
	for i, line := range script.Lines {
		index := i + 1
		segCtx := services.WithSegmentIndex(ctx, index)
		logger := logging.WithContext(segCtx, s.logger)
		part := Part{
			Index:    index,
			Path:     filepath.Join(dir, fmt.Sprintf("seg_%02d.mp3", index)),
			Text:     line.Text,
			Headline: line.Headline,
			Summary:  line.Summary,
		}

		speechErr := s.speak(segCtx, line.Text, part.Path)
		if speechErr != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			estimate, err := s.estimator.Estimate(line.Text)
			if err != nil {
				return nil, nil, segmentFailure(index, "estimate duration", services.Wrap(services.ErrValidation, stageName, "estimate", "", err))
			}
			if s.silence == nil {
				return nil, nil, segmentFailure(index, "speech failed", services.Wrap(services.ErrConfiguration, stageName, "placeholder", "no silence writer configured", speechErr))
			}
			if err := s.silence(segCtx, estimate, part.Path); err != nil {
				return nil, nil, segmentFailure(index, "write silent placeholder", services.Wrap(services.ErrExternalTool, stageName, "placeholder", "", errors.Join(speechErr, err)))
			}
			part.Duration = estimate
			part.Placeholder = true
			warnings = append(warnings, services.NewWarning(stageName, index, fmt.Sprintf("speech failed; %.2fs of silence used", estimate), speechErr))
			logging.WarnWithContext(logger, "speech failed; silent placeholder written", "tts_placeholder",
				logging.Error(speechErr),
				logging.Float64("duration_seconds", estimate),
				logging.String(logging.FieldImpact, "this segment is silent in the video"),
			)
			parts = append(parts, part)
			continue
		}

		measured, probeErr := s.measure(segCtx, part.Path)
		duration, err := s.estimator.Resolve(line.Text, measured)
		if err != nil {
			return nil, nil, segmentFailure(index, "resolve duration", services.Wrap(services.ErrValidation, stageName, "resolve", "", err))
		}
		part.Duration = duration
		part.Measured = duration == measured
		if !part.Measured {
			warnings = append(warnings, services.NewWarning(stageName, index, "audio length unavailable; estimated", probeErr))
			logging.WarnWithContext(logger, "duration estimated", "duration_estimated",
				logging.Error(probeErr),
				logging.Float64("duration_seconds", duration),
			)
		}
		logger.Debug("segment synthesized",
			logging.String("path", part.Path),
			logging.Float64("duration_seconds", duration),
			logging.Bool("measured", part.Measured),
		)
		parts = append(parts, part)
	}

	s.logger.Info("narration synthesized",
		logging.String(logging.FieldEventType, "narration_synthesized"),
		logging.Int("segment_count", len(parts)),
		logging.Int("warning_count", len(warnings)),
	)
	return parts, warnings, nil
}

func (s *Synthesizer) speak(ctx context.Context, text, path string) error {
	if s.speaker == nil {
		return errors.New("no speech client configured")
	}
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			if !services.IsTransient(err) {
				return err
			}
			if waitErr := wait(ctx, s.retryDelay); waitErr != nil {
				return waitErr
			}
		}
		if err = s.speaker.Synthesize(ctx, text, path); err == nil {
			return nil
		}
	}
	return err
}

func (s *Synthesizer) measure(ctx context.Context, path string) (float64, error) {
	if s.probe == nil {
		return 0, errors.New("no prober configured")
	}
	d, err := s.probe(ctx, path)
	if err != nil {
		return 0, err
	}
	if !(d > 0) {
		return 0, fmt.Errorf("probe reported %v seconds", d)
	}
	return d, nil
}

// Segments converts parts to timeline segments in order.
func Segments(parts []Part) ([]timeline.Segment, error) {
	segments := make([]timeline.Segment, 0, len(parts))
	for _, p := range parts {
		seg, err := timeline.NewSegment(p.Text, p.Duration, p.Headline, p.Summary)
		if err != nil {
			var segErr *timeline.SegmentError
			if errors.As(err, &segErr) {
				segErr.Index = p.Index
			}
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// Concat joins the clips into out with gap seconds of silence between them.
func Concat(ctx context.Context, run ffmpeg.CommandRunner, binary string, parts []Part, gap float64, out string) error {
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		paths = append(paths, p.Path)
	}
	if err := ffmpeg.Concat(ctx, run, binary, paths, gap, out); err != nil {
		return services.Wrap(services.ErrExternalTool, "concat", "ffmpeg", "join narration clips", err)
	}
	return nil
}

// segmentFailure tags err with the 1-based segment it happened on.
func segmentFailure(index int, reason string, err error) error {
	return &timeline.SegmentError{Index: index, Reason: reason, Err: err}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
