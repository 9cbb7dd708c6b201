package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"newscast/internal/captions"
	"newscast/internal/logging"
	"newscast/internal/narration"
	"newscast/internal/news"
	"newscast/internal/render"
	"newscast/internal/services"
	"newscast/internal/summarize"
	"newscast/internal/timeline"
)

// Stage names, in execution order.
const (
	StageFetch      = "fetch"
	StageSummarize  = "summarize"
	StageScript     = "script"
	StageSynthesize = "synthesize"
	StageConcat     = "concat"
	StageTimeline   = "timeline"
	StageCaptions   = "captions"
	StageThumbnail  = "thumbnail"
	StageLandscape  = "landscape"
	StageShorts     = "shorts"
	StageUpload     = "upload"
)

func (r *Runner) execute(ctx context.Context, s *Summary) error {
	var (
		briefings []summarize.Briefing
		script    narration.Script
		parts     []narration.Part
		entries   []timeline.Entry
	)
	audioDir, scriptPath := r.paths(s)
	gap := r.cfg.Narration.GapSeconds

	if err := r.stage(ctx, s, StageFetch, func(ctx context.Context, logger *slog.Logger) error {
		items, err := r.deps.News.Fetch(ctx, r.cfg.News.Topics)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return services.Wrap(services.ErrNotFound, StageFetch, "news", "no items for configured topics", nil)
		}
		s.Items = items
		logger.Info("news fetched", logging.Int("item_count", len(items)))
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageSummarize, func(ctx context.Context, _ *slog.Logger) error {
		var warnings []services.Warning
		briefings, warnings = r.deps.Summarizer.Summarize(ctx, s.Items)
		s.Briefings = briefings
		s.warn(warnings...)
		if len(briefings) == 0 {
			return services.Wrap(services.ErrValidation, StageSummarize, "briefings", "summarizer returned no briefings", nil)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageScript, func(context.Context, *slog.Logger) error {
		var err error
		script, err = narration.BuildScript(s.Date, briefings, r.templates())
		if err != nil {
			return services.Wrap(services.ErrValidation, StageScript, "build", "", err)
		}
		return narration.WriteScriptFile(scriptPath, script, nil, gap)
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageSynthesize, func(ctx context.Context, logger *slog.Logger) error {
		var (
			warnings []services.Warning
			err      error
		)
		parts, warnings, err = r.deps.Synthesizer.Synthesize(ctx, script, audioDir)
		s.warn(warnings...)
		if err != nil {
			return err
		}
		s.Parts = parts
		if err := narration.WriteScriptFile(scriptPath, script, parts, gap); err != nil {
			logging.WarnWithContext(logger, "timed script write failed", "script_write_failed", logging.Error(err))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageConcat, func(ctx context.Context, _ *slog.Logger) error {
		out := filepath.Join(s.OutputDir, NarrationFileName)
		if err := r.deps.JoinAudio(ctx, parts, gap, out); err != nil {
			return err
		}
		s.AudioPath = out
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageTimeline, func(_ context.Context, logger *slog.Logger) error {
		segments, err := narration.Segments(parts)
		if err != nil {
			return services.Wrap(services.ErrValidation, StageTimeline, "segments", "", err)
		}
		entries, err = timeline.Build(segments, timeline.Options{GapSeconds: gap})
		if err != nil {
			return services.Wrap(services.ErrValidation, StageTimeline, "layout", "", err)
		}
		s.setTimeline(entries)
		logger.Info("timeline built",
			logging.Int("segment_count", len(entries)),
			logging.Float64("timeline_seconds", s.TimelineSeconds),
		)
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageCaptions, func(_ context.Context, logger *slog.Logger) error {
		opts, err := r.captionOptions()
		if err != nil {
			return err
		}
		path := filepath.Join(s.OutputDir, CaptionFileName)
		if err := captions.Write(path, captions.FromTimeline(entries, opts)); err != nil {
			if errors.Is(err, captions.ErrInvalidInterval) {
				return services.Wrap(services.ErrValidation, StageCaptions, "serialize", "", err)
			}
			return err
		}
		s.CaptionPath = path
		for _, issue := range captions.Validate(path, s.TimelineSeconds) {
			s.warn(services.NewWarning(StageCaptions, 0, issue, nil))
			logging.WarnWithContext(logger, "caption check failed", "caption_validation", logging.String("issue", issue))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageThumbnail, func(_ context.Context, logger *slog.Logger) error {
		path := filepath.Join(s.OutputDir, ThumbnailFileName)
		opts := render.ThumbnailOptions{
			Width:    r.cfg.Thumbnail.Width,
			Height:   r.cfg.Thumbnail.Height,
			Title:    r.cfg.Thumbnail.Title,
			FontFile: r.cfg.Video.FontFile,
		}
		if err := r.deps.Thumbnail(path, s.Date, news.Topics(s.Items), opts); err != nil {
			s.warn(services.NewWarning(StageThumbnail, 0, "thumbnail not generated", err))
			logging.WarnWithContext(logger, "thumbnail failed", "thumbnail_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "uploads keep the default frame thumbnail"),
			)
			return nil
		}
		s.ThumbnailPath = path
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, StageLandscape, func(ctx context.Context, _ *slog.Logger) error {
		res, err := render.ParseResolution(r.cfg.Video.Resolution)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, StageLandscape, "resolution", "", err)
		}
		result, err := r.compose(ctx, s, render.ModeLandscape, res, entries, VideoFileName)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, StageLandscape, "compose", "", err)
		}
		s.VideoPath = result.OutputPath
		return nil
	}); err != nil {
		return err
	}

	if r.cfg.Video.ShortsEnabled && !r.noShorts {
		if err := r.stage(ctx, s, StageShorts, func(ctx context.Context, logger *slog.Logger) error {
			res, err := render.ParseResolution(r.cfg.Video.ShortsResolution)
			if err == nil {
				var result render.Result
				result, err = r.compose(ctx, s, render.ModeShorts, res, entries, ShortsFileName)
				if err == nil {
					s.ShortsPath = result.OutputPath
					return nil
				}
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.warn(services.NewWarning(StageShorts, 0, "shorts video not rendered", err))
			logging.WarnWithContext(logger, "shorts render failed", "shorts_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "only the landscape video is published"),
			)
			return nil
		}); err != nil {
			return err
		}
	}

	return r.stage(ctx, s, StageUpload, func(ctx context.Context, logger *slog.Logger) error {
		r.upload(ctx, logger, s)
		return nil
	})
}

func (r *Runner) compose(ctx context.Context, s *Summary, mode render.Mode, res render.Resolution, entries []timeline.Entry, name string) (render.Result, error) {
	result, err := r.deps.Renderer.Compose(ctx, render.Job{
		Mode:            mode,
		Resolution:      res,
		Title:           r.videoTitle(s.Date),
		Entries:         entries,
		AudioPath:       s.AudioPath,
		CaptionPath:     s.CaptionPath,
		BackgroundImage: r.cfg.Video.BackgroundImage,
		FontFile:        r.cfg.Video.FontFile,
		FPS:             r.cfg.Video.FPS,
		OutputPath:      filepath.Join(s.OutputDir, name),
		WorkDir:         filepath.Join(s.OutputDir, "overlays"),
	})
	if err != nil {
		return render.Result{}, err
	}
	if result.UsedFallbackBackground && r.cfg.Video.BackgroundImage != "" {
		s.warn(services.NewWarning(string(mode), 0, "background image missing; solid colour used", nil))
	}
	return result, nil
}

func (r *Runner) templates() narration.Templates {
	n := r.cfg.Narration
	return narration.Templates{
		Intro:           n.IntroTemplate,
		Item:            n.ItemTemplate,
		Outro:           n.OutroTemplate,
		BookendHeadline: n.BookendHeadline,
	}
}

func (r *Runner) captionOptions() (captions.Options, error) {
	source, err := captions.ParseSource(r.cfg.Narration.CaptionSource)
	if err != nil {
		return captions.Options{}, services.Wrap(services.ErrConfiguration, StageCaptions, "source", "", err)
	}
	granularity, err := captions.ParseGranularity(r.cfg.Narration.CaptionGranularity)
	if err != nil {
		return captions.Options{}, services.Wrap(services.ErrConfiguration, StageCaptions, "granularity", "", err)
	}
	return captions.Options{Source: source, Granularity: granularity}, nil
}

func (r *Runner) videoTitle(date string) string {
	return fmt.Sprintf("%s (%s)", r.cfg.Video.TitlePrefix, date)
}
