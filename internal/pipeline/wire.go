package pipeline

import (
	"context"
	"log/slog"
	"time"

	"newscast/internal/config"
	"newscast/internal/history"
	"newscast/internal/media/ffmpeg"
	"newscast/internal/media/ffprobe"
	"newscast/internal/narration"
	"newscast/internal/news"
	"newscast/internal/notifications"
	"newscast/internal/render"
	"newscast/internal/services/llm"
	"newscast/internal/services/tts"
	"newscast/internal/services/youtube"
	"newscast/internal/summarize"
	"newscast/internal/timeline"
)

// Estimator returns the duration estimator described by cfg.
func Estimator(cfg *config.Config) timeline.Estimator {
	return timeline.Estimator{
		Unit:           timeline.Unit(cfg.Narration.EstimatorUnit),
		SecondsPerUnit: cfg.Narration.SecondsPerUnit,
		MinSeconds:     cfg.Narration.MinSeconds,
	}
}

// ProductionDeps wires the real network and ffmpeg collaborators for cfg.
// ledger may be nil.
func ProductionDeps(cfg *config.Config, ledger *history.Store, logger *slog.Logger) (Deps, error) {
	fetcher := news.NewFetcher(news.Options{
		BaseURL:  cfg.News.FeedBaseURL,
		Language: cfg.News.Language,
		Region:   cfg.News.Region,
		Locale:   cfg.News.Locale,
		PerTopic: cfg.News.PerTopic,
		Delay:    time.Duration(cfg.News.RequestDelayMS) * time.Millisecond,
		Timeout:  time.Duration(cfg.News.TimeoutSeconds) * time.Second,

		TitleSimilarity: cfg.News.TitleSimilarity,
	}, nil, logger)

	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	speech := tts.NewClient(tts.Config{
		APIKey:         cfg.TTS.APIKey,
		BaseURL:        cfg.TTS.BaseURL,
		Model:          cfg.TTS.Model,
		Voice:          cfg.TTS.Voice,
		TimeoutSeconds: cfg.TTS.TimeoutSeconds,
	}, nil)

	ffmpegBin := cfg.Video.FFmpegBinary
	ffprobeBin := cfg.Video.FFprobeBinary
	probe := func(ctx context.Context, path string) (float64, error) {
		return ffprobe.Duration(ctx, ffprobeBin, path)
	}
	synth := narration.NewSynthesizer(speech, probe, narration.FFmpegSilence(ffmpeg.Run, ffmpegBin), logger,
		narration.WithRetries(cfg.TTS.Retries),
		narration.WithEstimator(Estimator(cfg)),
	)

	mapper, err := render.NewMapper(cfg.Render.MinDisplaySeconds, cfg.Render.MaxDisplaySeconds)
	if err != nil {
		return Deps{}, err
	}

	deps := Deps{
		News:        fetcher,
		Summarizer:  summarize.New(llmClient, logger),
		Synthesizer: synth,
		JoinAudio: func(ctx context.Context, parts []narration.Part, gap float64, out string) error {
			return narration.Concat(ctx, ffmpeg.Run, ffmpegBin, parts, gap, out)
		},
		Renderer:  render.NewCompositor(ffmpegBin, mapper, logger),
		Thumbnail: render.Thumbnail,
		Publisher: func(ctx context.Context) (Publisher, error) {
			return youtube.New(ctx, YouTubeConfig(cfg), logger)
		},
		Notifier: notifications.NewService(cfg),
		Logger:   logger,
	}
	if ledger != nil {
		deps.Ledger = ledger
	}
	return deps, nil
}

// YouTubeConfig maps the [youtube] section to uploader settings.
func YouTubeConfig(cfg *config.Config) youtube.Config {
	yt := cfg.YouTube
	return youtube.Config{
		ClientSecretsFile: yt.ClientSecretsFile,
		TokenFile:         yt.TokenFile,
		ClientID:          yt.ClientID,
		ClientSecret:      yt.ClientSecret,
		RefreshToken:      yt.RefreshToken,
		CategoryID:        yt.CategoryID,
		Language:          yt.Language,
		Timeout:           time.Duration(yt.TimeoutSeconds) * time.Second,
	}
}
