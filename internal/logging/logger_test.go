package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/services"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("briefing ready", logging.String("date", "2026-10-19"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", content, err)
	}
	if record["msg"] != "briefing ready" || record["date"] != "2026-10-19" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "0123456789abcdef")
	ctx = services.WithStage(ctx, "narration")
	ctx = services.WithSegmentIndex(ctx, 3)
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline")).
		Warn("synthesis fell back", logging.String("topic", "경제"), logging.Alert("placeholder_audio"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{"WARN [pipeline] run 01234567 (narration #3) – synthesis fell back", "- Alert: placeholder_audio", "- Topic: 경제"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
	if strings.Index(text, "Alert") > strings.Index(text, "Topic") {
		t.Fatalf("expected alert to be listed first: %q", text)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	if _, ok := logging.ParseLevel("verbose"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
	for _, lvl := range []string{"", "debug", "INFO", "warn", "error"} {
		if _, ok := logging.ParseLevel(lvl); !ok {
			t.Fatalf("expected %q to be accepted", lvl)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithStage(ctx, "render")
	ctx = services.WithSegmentIndex(ctx, 4)
	ctx = services.WithRequestID(ctx, "req-xyz")

	fields := logging.ContextFields(ctx)
	want := map[string]string{
		logging.FieldRunID:         "run-1",
		logging.FieldStage:         "render",
		logging.FieldSegmentIndex:  "4",
		logging.FieldCorrelationID: "req-xyz",
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(fields))
	}
	for _, f := range fields {
		if want[f.Key] != f.Value.String() {
			t.Fatalf("field %s = %s, want %s", f.Key, f.Value.String(), want[f.Key])
		}
	}
}

func TestLoggersRedactSecretKeys(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "secrets.log")
			logger, err := logging.New(logging.Options{Format: format, Level: "info", OutputPaths: []string{logPath}})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			logger.Info("auth loaded",
				logging.String("api_key", "sk-live-123"),
				logging.String("refresh_token", "1//abc"),
				logging.String("voice", "alloy"),
			)
			content, err := os.ReadFile(logPath)
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			out := string(content)
			if strings.Contains(out, "sk-live-123") || strings.Contains(out, "1//abc") {
				t.Fatalf("secret leaked: %q", out)
			}
			if !strings.Contains(out, "[redacted]") || !strings.Contains(out, "alloy") {
				t.Fatalf("expected redacted secrets and plain fields, got %q", out)
			}
		})
	}
}
