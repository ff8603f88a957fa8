package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hrntsm/dmkit/internal/domain"
)

func TestFindRoot_FindsWorkspaceFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Create dmkit.yaml at root
	if err := os.WriteFile(filepath.Join(root, "dmkit.yaml"), []byte("dmkit:\n  export:\n    compress: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, err := f.FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	f := NewFinder()
	_, err := f.FindRoot(filepath.Join(tmp, "a", "b"))
	if err == nil {
		t.Fatalf("expected error")
	}

	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestOpen_FallsBackToDefaults(t *testing.T) {
	tmp := t.TempDir()

	ws, err := Open(tmp)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ws.Found {
		t.Fatalf("expected no workspace")
	}
	if ws.Root != tmp {
		t.Fatalf("expected root=%s, got=%s", tmp, ws.Root)
	}
	if ws.ExportDir() != filepath.Join(tmp, "exports") {
		t.Fatalf("unexpected export dir %s", ws.ExportDir())
	}
}

func TestOpen_LoadsWorkspaceConfig(t *testing.T) {
	tmp := t.TempDir()
	nested := filepath.Join(tmp, "models", "v1")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := []byte("dmkit:\n  export:\n    dir: /abs/out\n")
	if err := os.WriteFile(filepath.Join(tmp, "dmkit.yaml"), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ws, err := Open(nested)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !ws.Found || ws.Root != tmp {
		t.Fatalf("expected workspace at %s, got %+v", tmp, ws)
	}
	if ws.ExportDir() != "/abs/out" {
		t.Fatalf("expected absolute export dir kept, got %s", ws.ExportDir())
	}
}

func TestOpen_BrokenConfig(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "dmkit.yaml"), []byte("dmkit: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Open(tmp); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
