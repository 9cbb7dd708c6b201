package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newscast/internal/fileutil"
	"newscast/internal/services"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1/audio/speech"
	defaultModel       = "gpt-4o-mini-tts"
	defaultVoice       = "alloy"
	defaultHTTPTimeout = 120 * time.Second
	maxErrorBody       = 4 << 10
)

// Config captures the speech endpoint settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Voice          string
	TimeoutSeconds int
}

// Client synthesizes speech.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient constructs a client, filling defaults for empty fields.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.BaseURL = strings.TrimSpace(cfg.BaseURL); cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model = strings.TrimSpace(cfg.Model); cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Voice = strings.TrimSpace(cfg.Voice); cfg.Voice == "" {
		cfg.Voice = defaultVoice
	}
	if httpClient == nil {
		timeout := defaultHTTPTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize renders text to an MP3 file at outPath.
func (c *Client) Synthesize(ctx context.Context, text, outPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return services.Wrap(services.ErrValidation, "tts", "synthesize", "empty text", nil)
	}
	if c.cfg.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, "tts", "synthesize", "api key required (set tts.api_key or OPENAI_API_KEY)", nil)
	}
	body, err := json.Marshal(speechRequest{
		Model:          c.cfg.Model,
		Voice:          c.cfg.Voice,
		Input:          text,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return fmt.Errorf("tts: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("tts: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrTransient, "tts", "synthesize", "http request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		return services.Wrap(services.HTTPStatusMarker(resp.StatusCode), "tts", "synthesize", msg, nil)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "tts", "synthesize", "read body", err)
	}
	if len(audio) == 0 {
		return services.Wrap(services.ErrTransient, "tts", "synthesize", "empty audio response", nil)
	}
	if err := fileutil.WriteFileAtomic(outPath, audio, 0o644); err != nil {
		return fmt.Errorf("tts: %w", err)
	}
	return nil
}
