package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and state directories.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	StateDir   string `toml:"state_dir"`
	MinFreeGiB int    `toml:"min_free_gib"`
}

// News contains the RSS search settings.
type News struct {
	Topics         []string `toml:"topics"`
	Locale         string   `toml:"locale"`
	Language       string   `toml:"language"`
	Region         string   `toml:"region"`
	PerTopic       int      `toml:"per_topic"`
	RequestDelayMS int      `toml:"request_delay_ms"`
	FeedBaseURL    string   `toml:"feed_base_url"`
	TimeoutSeconds int      `toml:"timeout_seconds"`

	// TitleSimilarity drops near-duplicate headlines across topics; 0 disables.
	TitleSimilarity float64 `toml:"title_similarity"`
}

// LLM contains the chat completion endpoint used for summaries.
type LLM struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// TTS contains the speech synthesis endpoint.
type TTS struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Voice          string `toml:"voice"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
}

// Narration contains script templates, timeline pacing, and caption derivation.
type Narration struct {
	GapSeconds         float64 `toml:"gap_seconds"`
	EstimatorUnit      string  `toml:"estimator_unit"`
	SecondsPerUnit     float64 `toml:"seconds_per_unit"`
	MinSeconds         float64 `toml:"min_seconds"`
	IntroTemplate      string  `toml:"intro_template"`
	ItemTemplate       string  `toml:"item_template"`
	OutroTemplate      string  `toml:"outro_template"`
	BookendHeadline    string  `toml:"bookend_headline"`
	CaptionSource      string  `toml:"caption_source"`
	CaptionGranularity string  `toml:"caption_granularity"`
}

// Video contains output canvas and encoder settings.
type Video struct {
	Resolution       string `toml:"resolution"`
	ShortsResolution string `toml:"shorts_resolution"`
	ShortsEnabled    bool   `toml:"shorts_enabled"`
	BackgroundImage  string `toml:"background_image"`
	FontFile         string `toml:"font_file"`
	FPS              int    `toml:"fps"`
	TitlePrefix      string `toml:"title_prefix"`
	FFmpegBinary     string `toml:"ffmpeg_binary"`
	FFprobeBinary    string `toml:"ffprobe_binary"`
}

// Render contains overlay display bounds.
type Render struct {
	MinDisplaySeconds float64 `toml:"min_display_seconds"`
	MaxDisplaySeconds float64 `toml:"max_display_seconds"`
}

// Thumbnail contains upload thumbnail settings.
type Thumbnail struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// YouTube contains upload and playlist settings.
type YouTube struct {
	Enabled             bool     `toml:"enabled"`
	ClientSecretsFile   string   `toml:"client_secrets_file"`
	TokenFile           string   `toml:"token_file"`
	ClientID            string   `toml:"client_id"`
	ClientSecret        string   `toml:"client_secret"`
	RefreshToken        string   `toml:"refresh_token"`
	Privacy             string   `toml:"privacy"`
	ShortsPrivacy       string   `toml:"shorts_privacy"`
	Tags                []string `toml:"tags"`
	ShortsTags          []string `toml:"shorts_tags"`
	CategoryID          string   `toml:"category_id"`
	PlaylistPrefix      string   `toml:"playlist_prefix"`
	PlaylistDescription string   `toml:"playlist_description"`
	Language            string   `toml:"language"`
	TimeoutSeconds      int      `toml:"timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for newscast.
//
// Configuration sections by subsystem:
//   - Paths: output, log, and state directories
//   - News: RSS topics and locale
//   - LLM: summary chat completions
//   - TTS: narration synthesis
//   - Narration: script templates, pacing, caption derivation
//   - Video, Render, Thumbnail: composited artifacts
//   - YouTube: upload and playlists
//   - Notifications: ntfy push settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	News          News          `toml:"news"`
	LLM           LLM           `toml:"llm"`
	TTS           TTS           `toml:"tts"`
	Narration     Narration     `toml:"narration"`
	Video         Video         `toml:"video"`
	Render        Render        `toml:"render"`
	Thumbnail     Thumbnail     `toml:"thumbnail"`
	YouTube       YouTube       `toml:"youtube"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/newscast/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file.
// It returns the config, the resolved path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strings.TrimSpace(strict.String()))
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("newscast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the output, log, and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RunDir returns the per-day output directory for date (YYYY-MM-DD).
func (c *Config) RunDir(date string) string {
	return filepath.Join(c.Paths.OutputDir, date)
}

// HistoryPath returns the run ledger database path.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// YouTubeConfigured reports whether upload credentials are present.
func (c *Config) YouTubeConfigured() bool {
	if strings.TrimSpace(c.YouTube.RefreshToken) != "" && strings.TrimSpace(c.YouTube.ClientID) != "" {
		return true
	}
	return strings.TrimSpace(c.YouTube.ClientSecretsFile) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
