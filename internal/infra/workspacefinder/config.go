package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hrntsm/dmkit/internal/app/template"
	"github.com/hrntsm/dmkit/internal/domain"
)

const ConfigFile = "dmkit.yaml"

// LoadConfig loads dmkit.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	s := y.Dmkit.Sphere
	if s.Center != nil {
		if len(s.Center) != 3 {
			return cfg, invalidField(path, "sphere.center", fmt.Sprintf("expected 3 coordinates, got %d", len(s.Center)))
		}
		cfg.Sphere.Center = domain.Point3{X: s.Center[0], Y: s.Center[1], Z: s.Center[2]}
	}
	if s.DefaultRadius != nil {
		if !domain.ValidRadius(*s.DefaultRadius) {
			return cfg, invalidField(path, "sphere.default_radius", "must be greater than zero")
		}
		cfg.Sphere.DefaultRadius = *s.DefaultRadius
	}
	if s.MaxRadius != nil {
		if !domain.ValidRadius(*s.MaxRadius) {
			return cfg, invalidField(path, "sphere.max_radius", "must be greater than zero")
		}
		cfg.Sphere.MaxRadius = *s.MaxRadius
	}
	if cfg.Sphere.DefaultRadius > cfg.Sphere.MaxRadius {
		return cfg, invalidField(path, "sphere.default_radius", "must not exceed max_radius")
	}

	e := y.Dmkit.Export
	if strings.TrimSpace(e.Filename) != "" {
		cfg.Export.Filename = strings.TrimSpace(e.Filename)
		sample := &domain.PendingShape{Kind: domain.ShapeSphere, Radius: cfg.Sphere.DefaultRadius}
		if _, err := template.Filename(cfg.Export.Filename, sample, time.Now()); err != nil {
			return cfg, invalidField(path, "export.filename", err.Error())
		}
	}
	if strings.TrimSpace(e.Dir) != "" {
		cfg.Export.Dir = strings.TrimSpace(e.Dir)
	}
	if e.Compress != nil {
		cfg.Export.Compress = *e.Compress
	}

	if y.Dmkit.Kernel.LoadTimeout != nil {
		if *y.Dmkit.Kernel.LoadTimeout <= 0 {
			return cfg, invalidField(path, "kernel.load_timeout", "must be positive")
		}
		cfg.Kernel.LoadTimeout = *y.Dmkit.Kernel.LoadTimeout
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "workspacefinder.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

type yamlConfig struct {
	Dmkit struct {
		Sphere struct {
			Center        []float64 `yaml:"center"`
			DefaultRadius *float64  `yaml:"default_radius"`
			MaxRadius     *float64  `yaml:"max_radius"`
		} `yaml:"sphere"`

		Export struct {
			Filename string `yaml:"filename"`
			Dir      string `yaml:"dir"`
			Compress *bool  `yaml:"compress"`
		} `yaml:"export"`

		Kernel struct {
			LoadTimeout *time.Duration `yaml:"load_timeout"`
		} `yaml:"kernel"`
	} `yaml:"dmkit"`
}
