package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNews()
	c.normalizeLLM()
	c.normalizeTTS()
	c.normalizeNarration()
	if err := c.normalizeVideo(); err != nil {
		return err
	}
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	envString(&c.Paths.OutputDir, "OUTPUT_DIR")
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.MinFreeGiB < 0 {
		c.Paths.MinFreeGiB = 0
	}
	return nil
}

func (c *Config) normalizeNews() {
	if value, ok := lookupEnv("NEWS_TOPICS"); ok {
		c.News.Topics = strings.Split(value, ",")
	}
	c.News.Topics = dedupeTrimmed(c.News.Topics)
	if value, ok := lookupEnv("CHANNEL_LOCALE"); ok {
		c.News.Locale = value
	}
	c.News.Locale = strings.TrimSpace(c.News.Locale)
	if c.News.Locale == "" {
		c.News.Locale = defaultNewsLocale
	}
	// "KR:ko" carries both region and language.
	if region, lang, ok := strings.Cut(c.News.Locale, ":"); ok {
		if strings.TrimSpace(c.News.Region) == "" {
			c.News.Region = region
		}
		if strings.TrimSpace(c.News.Language) == "" {
			c.News.Language = lang
		}
	}
	c.News.Language = strings.TrimSpace(c.News.Language)
	if c.News.Language == "" {
		c.News.Language = defaultNewsLanguage
	}
	c.News.Region = strings.TrimSpace(c.News.Region)
	if c.News.Region == "" {
		c.News.Region = defaultNewsRegion
	}
	c.News.FeedBaseURL = strings.TrimSpace(c.News.FeedBaseURL)
	if c.News.FeedBaseURL == "" {
		c.News.FeedBaseURL = defaultNewsFeedBaseURL
	}
	if c.News.RequestDelayMS < 0 {
		c.News.RequestDelayMS = 0
	}
	if c.News.TimeoutSeconds <= 0 {
		c.News.TimeoutSeconds = defaultNewsTimeoutSeconds
	}
}

func (c *Config) normalizeLLM() {
	envString(&c.LLM.APIKey, "OPENAI_API_KEY")
	envString(&c.LLM.Model, "OPENAI_TEXT_MODEL")
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeTTS() {
	envString(&c.TTS.Model, "OPENAI_TTS_MODEL")
	envString(&c.TTS.Voice, "OPENAI_TTS_VOICE")
	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" {
		c.TTS.APIKey = c.LLM.APIKey
	}
	c.TTS.BaseURL = strings.TrimSpace(c.TTS.BaseURL)
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	c.TTS.Model = strings.TrimSpace(c.TTS.Model)
	if c.TTS.Model == "" {
		c.TTS.Model = defaultTTSModel
	}
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultTTSVoice
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.Retries < 0 {
		c.TTS.Retries = 0
	}
}

func (c *Config) normalizeNarration() {
	c.Narration.EstimatorUnit = strings.ToLower(strings.TrimSpace(c.Narration.EstimatorUnit))
	if c.Narration.EstimatorUnit == "" {
		c.Narration.EstimatorUnit = defaultEstimatorUnit
	}
	if c.Narration.SecondsPerUnit == 0 {
		if c.Narration.EstimatorUnit == "char" {
			c.Narration.SecondsPerUnit = defaultSecondsPerChar
		} else {
			c.Narration.SecondsPerUnit = defaultSecondsPerWord
		}
	}
	if c.Narration.MinSeconds == 0 {
		c.Narration.MinSeconds = defaultMinSegmentSeconds
	}
	setDefault(&c.Narration.IntroTemplate, defaultIntroTemplate)
	setDefault(&c.Narration.ItemTemplate, defaultItemTemplate)
	setDefault(&c.Narration.OutroTemplate, defaultOutroTemplate)
	setDefault(&c.Narration.BookendHeadline, defaultBookendHeadline)
	c.Narration.CaptionSource = strings.ToLower(strings.TrimSpace(c.Narration.CaptionSource))
	setDefault(&c.Narration.CaptionSource, defaultCaptionSource)
	c.Narration.CaptionGranularity = strings.ToLower(strings.TrimSpace(c.Narration.CaptionGranularity))
	setDefault(&c.Narration.CaptionGranularity, defaultCaptionGranularity)
}

func (c *Config) normalizeVideo() error {
	envString(&c.Video.Resolution, "VIDEO_RESOLUTION")
	envString(&c.Video.BackgroundImage, "BACKGROUND_IMAGE")
	envString(&c.Video.TitlePrefix, "CHANNEL_TITLE_PREFIX")
	c.Video.Resolution = strings.ToLower(strings.TrimSpace(c.Video.Resolution))
	setDefault(&c.Video.Resolution, defaultResolution)
	c.Video.ShortsResolution = strings.ToLower(strings.TrimSpace(c.Video.ShortsResolution))
	setDefault(&c.Video.ShortsResolution, defaultShortsResolution)
	setDefault(&c.Video.TitlePrefix, defaultTitlePrefix)
	setDefault(&c.Video.FFmpegBinary, defaultFFmpegBinary)
	setDefault(&c.Video.FFprobeBinary, defaultFFprobeBinary)
	if c.Video.FPS <= 0 {
		c.Video.FPS = defaultFPS
	}
	var err error
	if c.Video.BackgroundImage, err = expandPath(strings.TrimSpace(c.Video.BackgroundImage)); err != nil {
		return fmt.Errorf("video.background_image: %w", err)
	}
	if c.Video.FontFile, err = expandPath(strings.TrimSpace(c.Video.FontFile)); err != nil {
		return fmt.Errorf("video.font_file: %w", err)
	}
	if c.Thumbnail.Width <= 0 {
		c.Thumbnail.Width = defaultThumbnailWidth
	}
	if c.Thumbnail.Height <= 0 {
		c.Thumbnail.Height = defaultThumbnailHeight
	}
	setDefault(&c.Thumbnail.Title, defaultThumbnailTitle)
	return nil
}

func (c *Config) normalizeYouTube() error {
	envString(&c.YouTube.ClientSecretsFile, "YOUTUBE_CLIENT_SECRETS_FILE")
	envString(&c.YouTube.ClientID, "YOUTUBE_CLIENT_ID")
	envString(&c.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET")
	envString(&c.YouTube.RefreshToken, "YOUTUBE_REFRESH_TOKEN")
	c.YouTube.ClientID = strings.TrimSpace(c.YouTube.ClientID)
	c.YouTube.ClientSecret = strings.TrimSpace(c.YouTube.ClientSecret)
	c.YouTube.RefreshToken = strings.TrimSpace(c.YouTube.RefreshToken)
	var err error
	if c.YouTube.ClientSecretsFile, err = expandPath(strings.TrimSpace(c.YouTube.ClientSecretsFile)); err != nil {
		return fmt.Errorf("youtube.client_secrets_file: %w", err)
	}
	setDefault(&c.YouTube.TokenFile, defaultYouTubeTokenFile)
	if c.YouTube.TokenFile, err = expandPath(strings.TrimSpace(c.YouTube.TokenFile)); err != nil {
		return fmt.Errorf("youtube.token_file: %w", err)
	}
	c.YouTube.Privacy = strings.ToLower(strings.TrimSpace(c.YouTube.Privacy))
	setDefault(&c.YouTube.Privacy, defaultYouTubePrivacy)
	c.YouTube.ShortsPrivacy = strings.ToLower(strings.TrimSpace(c.YouTube.ShortsPrivacy))
	setDefault(&c.YouTube.ShortsPrivacy, defaultShortsPrivacy)
	c.YouTube.Tags = dedupeTrimmed(c.YouTube.Tags)
	c.YouTube.ShortsTags = dedupeTrimmed(c.YouTube.ShortsTags)
	setDefault(&c.YouTube.CategoryID, defaultYouTubeCategoryID)
	if strings.TrimSpace(c.YouTube.PlaylistPrefix) == "" {
		c.YouTube.PlaylistPrefix = defaultPlaylistPrefix
	}
	setDefault(&c.YouTube.PlaylistDescription, defaultPlaylistDescription)
	setDefault(&c.YouTube.Language, defaultYouTubeLanguage)
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = defaultYouTubeTimeout
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	envString(&c.Notifications.NtfyTopic, "NTFY_TOPIC")
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	setDefault(&c.Logging.Format, defaultLogFormat)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	setDefault(&c.Logging.Level, defaultLogLevel)
}

// envString overwrites dst with a non-empty environment value.
func envString(dst *string, key string) {
	if value, ok := lookupEnv(key); ok {
		*dst = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func setDefault(dst *string, fallback string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = fallback
	}
}

func dedupeTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
