package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable. Errors name the offending key.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validatePaths,
		c.validateNews,
		c.validateLLM,
		c.validateTTS,
		c.validateNarration,
		c.validateVideo,
		c.validateRender,
		c.validateYouTube,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateNews() error {
	if len(c.News.Topics) == 0 {
		return errors.New("news.topics must list at least one topic (or set NEWS_TOPICS)")
	}
	if c.News.PerTopic <= 0 {
		return errors.New("news.per_topic must be positive")
	}
	if c.News.TitleSimilarity < 0 || c.News.TitleSimilarity > 1 {
		return errors.New("news.title_similarity must be between 0 and 1")
	}
	if err := validateURL("news.feed_base_url", c.News.FeedBaseURL); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if err := validateURL("llm.base_url", c.LLM.BaseURL); err != nil {
		return err
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if err := validateURL("tts.base_url", c.TTS.BaseURL); err != nil {
		return err
	}
	if c.TTS.Retries > 5 {
		return errors.New("tts.retries must be at most 5")
	}
	return nil
}

func (c *Config) validateNarration() error {
	if c.Narration.GapSeconds < 0 || math.IsNaN(c.Narration.GapSeconds) {
		return errors.New("narration.gap_seconds must not be negative")
	}
	switch c.Narration.EstimatorUnit {
	case "word", "char":
	default:
		return fmt.Errorf("narration.estimator_unit: unsupported value %q (want word or char)", c.Narration.EstimatorUnit)
	}
	if !(c.Narration.SecondsPerUnit > 0) {
		return errors.New("narration.seconds_per_unit must be positive")
	}
	if c.Narration.MinSeconds < 1 {
		return errors.New("narration.min_seconds must be at least 1")
	}
	if !strings.Contains(c.Narration.ItemTemplate, "{bullet}") {
		return errors.New("narration.item_template must contain {bullet}")
	}
	switch c.Narration.CaptionSource {
	case "narration", "headline":
	default:
		return fmt.Errorf("narration.caption_source: unsupported value %q", c.Narration.CaptionSource)
	}
	switch c.Narration.CaptionGranularity {
	case "segment", "sentence":
	default:
		return fmt.Errorf("narration.caption_granularity: unsupported value %q", c.Narration.CaptionGranularity)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if err := validateResolution("video.resolution", c.Video.Resolution); err != nil {
		return err
	}
	if err := validateResolution("video.shorts_resolution", c.Video.ShortsResolution); err != nil {
		return err
	}
	if c.Video.FPS > 120 {
		return errors.New("video.fps must be at most 120")
	}
	if err := validateResolution("thumbnail", fmt.Sprintf("%dx%d", c.Thumbnail.Width, c.Thumbnail.Height)); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if !(c.Render.MinDisplaySeconds > 0) {
		return errors.New("render.min_display_seconds must be positive")
	}
	if c.Render.MaxDisplaySeconds < c.Render.MinDisplaySeconds {
		return errors.New("render.max_display_seconds must not be less than render.min_display_seconds")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	for key, value := range map[string]string{"youtube.privacy": c.YouTube.Privacy, "youtube.shorts_privacy": c.YouTube.ShortsPrivacy} {
		switch value {
		case "public", "unlisted", "private":
		default:
			return fmt.Errorf("%s: unsupported value %q", key, value)
		}
	}
	if !c.YouTube.Enabled {
		return nil
	}
	if !c.YouTubeConfigured() {
		return errors.New("youtube.client_secrets_file or youtube.client_id + youtube.refresh_token must be set when youtube.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateURL(key, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
	}
	return nil
}

func validateResolution(key, value string) error {
	w, h, ok := strings.Cut(value, "x")
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if !ok || errW != nil || errH != nil || width <= 0 || height <= 0 {
		return fmt.Errorf("%s must look like 1920x1080, got %q", key, value)
	}
	if width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%s dimensions must be even, got %q", key, value)
	}
	return nil
}
