package workspacefinder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hrntsm/dmkit/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ws")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Partial config (no sphere/kernel)
	root := writeConfig(t, "dmkit:\n  export:\n    compress: true\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if !cfg.Export.Compress {
		t.Fatalf("expected compress=true")
	}
	if cfg.Export.Filename != "sphere.3dm" {
		t.Fatalf("expected default filename, got=%s", cfg.Export.Filename)
	}
	if cfg.Sphere.Center != (domain.Point3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("expected default center, got=%v", cfg.Sphere.Center)
	}
	if cfg.Sphere.DefaultRadius != 16 {
		t.Fatalf("expected default radius 16, got=%v", cfg.Sphere.DefaultRadius)
	}
	if cfg.Kernel.LoadTimeout != 10*time.Second {
		t.Fatalf("expected default timeout, got=%v", cfg.Kernel.LoadTimeout)
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	root := writeConfig(t, `dmkit:
  sphere:
    center: [0, 0, 5]
    default_radius: 2.5
    max_radius: 50
  export:
    filename: ball.3dm
    dir: out
  kernel:
    load_timeout: 1500ms
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Sphere.Center != (domain.Point3{X: 0, Y: 0, Z: 5}) {
		t.Fatalf("unexpected center %v", cfg.Sphere.Center)
	}
	if cfg.Sphere.DefaultRadius != 2.5 || cfg.Sphere.MaxRadius != 50 {
		t.Fatalf("unexpected radii %+v", cfg.Sphere)
	}
	if cfg.Export.Filename != "ball.3dm" || cfg.Export.Dir != "out" {
		t.Fatalf("unexpected export config %+v", cfg.Export)
	}
	if cfg.Kernel.LoadTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected timeout %v", cfg.Kernel.LoadTimeout)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		field string
	}{
		{"center arity", "dmkit:\n  sphere:\n    center: [1, 2]\n", "sphere.center"},
		{"zero radius", "dmkit:\n  sphere:\n    default_radius: 0\n", "sphere.default_radius"},
		{"radius above max", "dmkit:\n  sphere:\n    default_radius: 20\n    max_radius: 10\n", "sphere.default_radius"},
		{"negative timeout", "dmkit:\n  kernel:\n    load_timeout: -1s\n", "kernel.load_timeout"},
		{"unknown placeholder", "dmkit:\n  export:\n    filename: \"sphere-{{size}}.3dm\"\n", "export.filename"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, c.yaml))
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected KindInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), c.field) {
				t.Fatalf("expected field %s in error, got %v", c.field, err)
			}
		})
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "dmkit: [\n"))
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if cfg.Export.Filename != "sphere.3dm" {
		t.Fatalf("expected defaults alongside the error")
	}
}

func TestLoadConfig_FilenamePlaceholders(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "dmkit:\n  export:\n    filename: \"sphere-{{radius}}.3dm\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Export.Filename != "sphere-{{radius}}.3dm" {
		t.Fatalf("expected pattern kept verbatim, got %q", cfg.Export.Filename)
	}
}
