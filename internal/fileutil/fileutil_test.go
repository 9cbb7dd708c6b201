package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "captions.srt")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected second, got %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %o", info.Mode().Perm())
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := WriteJSON(path, map[string]int{"warnings": 2}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["warnings"] != 2 {
		t.Fatalf("unexpected payload %s", data)
	}
}

func TestFileExistsAndNonEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.mp3")
	full := filepath.Join(dir, "full.mp3")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(empty) || !FileExists(full) {
		t.Fatal("expected both files to exist")
	}
	if FileExists(dir) {
		t.Fatal("directories are not files")
	}
	if FileExists(filepath.Join(dir, "missing")) || FileExists("") {
		t.Fatal("missing paths must not exist")
	}

	if ok, err := NonEmptyFile(empty); err != nil || ok {
		t.Fatalf("empty file: ok=%v err=%v", ok, err)
	}
	if ok, err := NonEmptyFile(full); err != nil || !ok {
		t.Fatalf("full file: ok=%v err=%v", ok, err)
	}
	if ok, err := NonEmptyFile(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
}
