package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTeeHandlerCollapsesNilAndSingleHandlers(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if got := TeeHandler(nil, inner, nil); got != inner {
		t.Fatalf("expected single handler unwrapped, got %T", got)
	}
}

func TestTeeHandlerRoutesByLevel(t *testing.T) {
	var console, file bytes.Buffer
	logger := slog.New(TeeHandler(
		slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	logger.Debug("segment measured")
	if console.Len() != 0 {
		t.Fatal("info handler should not receive debug records")
	}
	if file.Len() == 0 {
		t.Fatal("debug handler should receive debug records")
	}

	file.Reset()
	logger.Info("run finished", slog.String("video_id", "abc"))
	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		if !bytes.Contains(buf.Bytes(), []byte(`"video_id":"abc"`)) {
			t.Fatalf("%s missing attribute: %s", name, buf.String())
		}
	}
}

func TestTeeHandlerPropagatesAttrsAndGroups(t *testing.T) {
	var a, b bytes.Buffer
	h := TeeHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))
	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String(FieldRunID, "r1")}).WithGroup("upload"))
	logger.Info("uploaded", slog.String("mode", "shorts"))

	for _, buf := range []*bytes.Buffer{&a, &b} {
		if !bytes.Contains(buf.Bytes(), []byte(`"run_id":"r1"`)) || !bytes.Contains(buf.Bytes(), []byte(`"upload":{"mode":"shorts"}`)) {
			t.Fatalf("unexpected record: %s", buf.String())
		}
	}
}

type failingHandler struct{ NoopHandler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestTeeHandlerKeepsWritingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	handler := TeeHandler(failingHandler{}, slog.NewJSONHandler(&buf, nil))
	err := handler.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "run finished", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	if !strings.Contains(buf.String(), "run finished") {
		t.Fatalf("second handler did not receive the record: %q", buf.String())
	}
}
