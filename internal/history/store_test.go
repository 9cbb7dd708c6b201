package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"newscast/internal/history"
)

func openStore(t *testing.T) (*history.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "history.db")
	store, err := history.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestBeginFinishGet(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)

	if err := store.Begin(ctx, history.Run{ID: "run-1", Date: "2026-10-19", StartedAt: started, OutputDir: "/out/2026-10-19"}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	run, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run == nil || run.Status != history.StatusRunning || !run.StartedAt.Equal(started) {
		t.Fatalf("unexpected running row: %#v", run)
	}

	finish := history.Run{
		ID:              "run-1",
		Status:          history.StatusCompleted,
		FinishedAt:      started.Add(3 * time.Minute),
		ItemCount:       6,
		SegmentCount:    8,
		TimelineSeconds: 184.5,
		VideoPath:       "/out/2026-10-19/video.mp4",
		VideoID:         "abc123",
		Warnings:        []string{"summarize item 2: fallback text used"},
	}
	if err := store.Finish(ctx, finish); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	run, err = store.Get(ctx, "run-1")
	if err != nil || run == nil {
		t.Fatalf("Get after finish: %v %#v", err, run)
	}
	if run.Status != history.StatusCompleted || run.SegmentCount != 8 || run.TimelineSeconds != 184.5 {
		t.Fatalf("unexpected finished row: %#v", run)
	}
	if run.Duration() != 3*time.Minute {
		t.Fatalf("unexpected duration %v", run.Duration())
	}
	if len(run.Warnings) != 1 || run.VideoID != "abc123" || run.ShortsID != "" {
		t.Fatalf("unexpected artifacts: %#v", run)
	}
	if run.OutputDir != "/out/2026-10-19" {
		t.Fatalf("expected output dir from Begin to survive, got %q", run.OutputDir)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store, _ := openStore(t)
	run, err := store.Get(context.Background(), "nope")
	if err != nil || run != nil {
		t.Fatalf("expected nil, nil; got %#v, %v", run, err)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store, _ := openStore(t)
	err := store.Finish(context.Background(), history.Run{ID: "ghost", Status: history.StatusFailed})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestBeginRequiresIDAndDate(t *testing.T) {
	store, _ := openStore(t)
	if err := store.Begin(context.Background(), history.Run{ID: "x"}); err == nil {
		t.Fatal("expected error without date")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 6, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.Begin(ctx, history.Run{ID: id, Date: "2026-10-0" + string(rune('1'+i)), StartedAt: base.Add(time.Duration(i) * 24 * time.Hour)}); err != nil {
			t.Fatalf("Begin %s: %v", id, err)
		}
	}
	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected order: %v", []string{runs[0].ID, runs[1].ID})
	}
	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all runs with default limit, got %d (%v)", len(all), err)
	}
}

func TestMarkAbandoned(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	_ = store.Begin(ctx, history.Run{ID: "stuck", Date: "2026-10-18"})
	_ = store.Begin(ctx, history.Run{ID: "done", Date: "2026-10-19"})
	if err := store.Finish(ctx, history.Run{ID: "done"}); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	n, err := store.MarkAbandoned(ctx)
	if err != nil || n != 1 {
		t.Fatalf("MarkAbandoned = %d, %v", n, err)
	}
	run, _ := store.Get(ctx, "stuck")
	if run.Status != history.StatusFailed || run.ErrorMessage == "" {
		t.Fatalf("unexpected abandoned row: %#v", run)
	}
	done, _ := store.Get(ctx, "done")
	if done.Status != history.StatusCompleted {
		t.Fatalf("running status should finish as completed, got %s", done.Status)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	store, path := openStore(t)
	if _, err := sqlOpen(t, path).Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()
	if _, err := history.Open(context.Background(), path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := history.ParseStatus(" Review "); !ok || s != history.StatusReview {
		t.Fatalf("ParseStatus = %q, %v", s, ok)
	}
	if _, ok := history.ParseStatus("paused"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func sqlOpen(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
