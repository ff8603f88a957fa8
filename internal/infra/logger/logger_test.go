package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesJSONLines(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root, Debug: true})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}

	if err := IsReady(); err != nil {
		t.Fatalf("expected logger ready: %v", err)
	}
	want := filepath.Join(root, ".dmkit", "logs", "dmkit.log")
	if Path() != want {
		t.Fatalf("expected path %s, got %s", want, Path())
	}

	Component("export").Debug("export.ok", "bytes", 42)

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup error: %v", err)
	}
	if IsReady() == nil {
		t.Fatalf("expected logger reset after cleanup")
	}

	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d:\n%s", len(lines), b)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if rec["msg"] != "export.ok" || rec["component"] != "export" {
		t.Fatalf("unexpected record %v", rec)
	}
	if _, ok := rec["source"]; !ok {
		t.Fatalf("expected source info in debug mode")
	}
}

func TestSetup_InfoLevelDropsDebug(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	L().Debug("hidden")
	L().Info("shown")
	_ = cleanup()

	b, _ := os.ReadFile(filepath.Join(root, ".dmkit", "logs", "dmkit.log"))
	if strings.Contains(string(b), "hidden") {
		t.Fatalf("expected debug record to be dropped")
	}
	if !strings.Contains(string(b), "shown") {
		t.Fatalf("expected info record")
	}
}

func TestSetup_UnwritableRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(root, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Setup(Config{Root: root}); err == nil {
		t.Fatalf("expected error when root is a file")
	}
	if IsReady() == nil {
		t.Fatalf("expected logger to stay in discard mode")
	}
}
