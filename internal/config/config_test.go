package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"newscast/internal/config"
)

var envKeys = []string{
	"OPENAI_API_KEY", "OPENAI_TEXT_MODEL", "OPENAI_TTS_MODEL", "OPENAI_TTS_VOICE",
	"NEWS_TOPICS", "CHANNEL_LOCALE", "CHANNEL_TITLE_PREFIX", "VIDEO_RESOLUTION",
	"BACKGROUND_IMAGE", "OUTPUT_DIR", "YOUTUBE_CLIENT_SECRETS_FILE", "YOUTUBE_CLIENT_ID",
	"YOUTUBE_CLIENT_SECRET", "YOUTUBE_REFRESH_TOKEN", "NTFY_TOPIC",
}

// isolate points HOME at a temp dir and blanks every env fallback.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "newscast", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if want := filepath.Join(home, ".local", "share", "newscast", "output"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if strings.Join(cfg.News.Topics, ",") != "경제,IT,국내" {
		t.Fatalf("unexpected topics: %v", cfg.News.Topics)
	}
	if cfg.News.Language != "ko" || cfg.News.Region != "KR" {
		t.Fatalf("expected language/region from locale, got %q/%q", cfg.News.Language, cfg.News.Region)
	}
	if cfg.Narration.GapSeconds != 0.25 || cfg.Narration.MinSeconds != 1.0 {
		t.Fatalf("unexpected narration pacing: %+v", cfg.Narration)
	}
	if cfg.Render.MinDisplaySeconds != 2.0 || cfg.Render.MaxDisplaySeconds != 8.0 {
		t.Fatalf("unexpected display bounds: %+v", cfg.Render)
	}
	if cfg.YouTube.Enabled {
		t.Fatal("expected uploads disabled by default")
	}
	if cfg.HistoryPath() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if cfg.RunDir("2026-10-19") != filepath.Join(cfg.Paths.OutputDir, "2026-10-19") {
		t.Fatalf("unexpected run dir %q", cfg.RunDir("2026-10-19"))
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "newscast.toml")
	content := `
[paths]
output_dir = "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"

[news]
topics = [" 정치 ", "경제", "정치"]
locale = "US:en"
per_topic = 4

[narration]
estimator_unit = "CHAR"
seconds_per_unit = 0

[logging]
format = "JSON"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if strings.Join(cfg.News.Topics, ",") != "정치,경제" {
		t.Fatalf("expected trimmed, de-duplicated topics, got %v", cfg.News.Topics)
	}
	if cfg.News.Language != "en" || cfg.News.Region != "US" || cfg.News.PerTopic != 4 {
		t.Fatalf("unexpected news settings: %+v", cfg.News)
	}
	if cfg.Narration.EstimatorUnit != "char" || cfg.Narration.SecondsPerUnit != 0.1 {
		t.Fatalf("expected char estimator at 0.1s, got %+v", cfg.Narration)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "newscast.toml")
	if err := os.WriteFile(configPath, []byte("[news]\ntopcis = [\"IT\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "topcis") {
		t.Fatalf("expected unknown key error naming the key, got %v", err)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "newscast.toml")
	content := `
[llm]
api_key = "file-key"
model = "file-model"

[video]
resolution = "1280x720"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_TEXT_MODEL", "env-model")
	t.Setenv("NEWS_TOPICS", "스포츠, 문화")
	t.Setenv("VIDEO_RESOLUTION", "1920x1080")
	t.Setenv("OPENAI_TTS_VOICE", "nova")
	t.Setenv("NTFY_TOPIC", "https://ntfy.example/briefing")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-key" || cfg.LLM.Model != "env-model" {
		t.Errorf("expected LLM settings from env, got %+v", cfg.LLM)
	}
	if cfg.TTS.APIKey != "env-key" {
		t.Errorf("expected TTS key to fall back to LLM key, got %q", cfg.TTS.APIKey)
	}
	if cfg.TTS.Voice != "nova" {
		t.Errorf("expected TTS voice from env, got %q", cfg.TTS.Voice)
	}
	if strings.Join(cfg.News.Topics, ",") != "스포츠,문화" {
		t.Errorf("expected topics from env, got %v", cfg.News.Topics)
	}
	if cfg.Video.Resolution != "1920x1080" {
		t.Errorf("expected resolution from env, got %q", cfg.Video.Resolution)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.example/briefing" {
		t.Errorf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OPENAI_TTS_MODEL=tts-from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	os.Unsetenv("OPENAI_TTS_MODEL")
	t.Cleanup(func() { os.Unsetenv("OPENAI_TTS_MODEL") })

	loaded, err := config.LoadDotEnv(path)
	if err != nil || !loaded {
		t.Fatalf("LoadDotEnv = %v, %v", loaded, err)
	}
	if got := os.Getenv("OPENAI_TTS_MODEL"); got != "tts-from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
	loaded, err = config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil || loaded {
		t.Fatalf("missing file should be ignored, got %v, %v", loaded, err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Narration.ItemTemplate != config.Default().Narration.ItemTemplate {
		t.Fatalf("sample item template drifted from default: %q", cfg.Narration.ItemTemplate)
	}
	if len(cfg.YouTube.Tags) != 4 || cfg.YouTube.ShortsPrivacy != "unlisted" {
		t.Fatalf("unexpected sample youtube section: %+v", cfg.YouTube)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	isolate(t)
	cases := []struct {
		key    string
		mutate func(*config.Config)
	}{
		{"news.topics", func(c *config.Config) { c.News.Topics = nil }},
		{"news.per_topic", func(c *config.Config) { c.News.PerTopic = 0 }},
		{"llm.base_url", func(c *config.Config) { c.LLM.BaseURL = "not a url" }},
		{"narration.gap_seconds", func(c *config.Config) { c.Narration.GapSeconds = -0.1 }},
		{"narration.estimator_unit", func(c *config.Config) { c.Narration.EstimatorUnit = "syllable" }},
		{"narration.min_seconds", func(c *config.Config) { c.Narration.MinSeconds = 0.5 }},
		{"narration.caption_source", func(c *config.Config) { c.Narration.CaptionSource = "title" }},
		{"video.resolution", func(c *config.Config) { c.Video.Resolution = "1920x1081" }},
		{"video.shorts_resolution", func(c *config.Config) { c.Video.ShortsResolution = "tall" }},
		{"render.max_display_seconds", func(c *config.Config) { c.Render.MaxDisplaySeconds = 1 }},
		{"youtube.privacy", func(c *config.Config) { c.YouTube.Privacy = "secret" }},
		{"youtube.client_secrets_file", func(c *config.Config) { c.YouTube.Enabled = true }},
		{"logging.level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range cases {
		cfg := config.Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.key)
		}
		if !strings.Contains(err.Error(), tc.key) {
			t.Fatalf("%s: error should name the key, got %v", tc.key, err)
		}
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
