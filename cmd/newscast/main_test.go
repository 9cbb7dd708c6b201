package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newscast/internal/config"
	"newscast/internal/history"
	"newscast/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, key := range []string{
		"OPENAI_API_KEY", "OUTPUT_DIR", "NEWS_TOPICS", "CHANNEL_TITLE_PREFIX",
		"NTFY_TOPIC", "BACKGROUND_IMAGE", "VIDEO_RESOLUTION",
	} {
		t.Setenv(key, "")
	}
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\noutput_dir = %q\nlog_dir = %q\nstate_dir = %q\nmin_free_gib = 0\n\n[llm]\napi_key = %q\n\n[notifications]\nntfy_topic = %q\n",
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Paths.StateDir,
		cfg.LLM.APIKey,
		cfg.Notifications.NtfyTopic,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootWithoutCommandPrintsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "timeline")
	requireContains(t, out, "test-notify")
}

func TestRunFailsPreflightWithoutAPIKey(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	_, _, err := runCLI(t, []string{"run", "--skip-upload"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight failed")
	requireContains(t, err.Error(), "Summary LLM (API key missing)")
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notification not sent")
}

func TestHistoryCommandListsRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenHistory(t, env.cfg)
	ctx := context.Background()

	started := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)
	if err := store.Begin(ctx, history.Run{ID: "run-1", Date: "2026-10-18", StartedAt: started}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Finish(ctx, history.Run{
		ID:              "run-1",
		Date:            "2026-10-18",
		Status:          history.StatusCompleted,
		Stage:           "upload",
		StartedAt:       started,
		FinishedAt:      started.Add(95 * time.Second),
		ItemCount:       6,
		TimelineSeconds: 172.5,
		VideoID:         "vid123",
		Warnings:        []string{"summarize: fallback text"},
	}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "2026-10-18")
	requireContains(t, out, "completed")
	requireContains(t, out, "172.5s")
	requireContains(t, out, "1m35s")
	requireContains(t, out, "vid123")
}

func TestCheckReportsMissingKey(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail without an API key")
	}
	requireContains(t, err.Error(), "1 required check(s) failed")
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[ERROR] API key missing")
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected plain output for a buffer, got %q", out)
	}
}

func TestTestNotifySendsToTopic(t *testing.T) {
	var gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	env := setupCLITestEnv(t)
	env.cfg.Notifications.NtfyTopic = srv.URL + "/newscast"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if gotTitle != "Newscast - Test" {
		t.Fatalf("unexpected title header %q", gotTitle)
	}
}
