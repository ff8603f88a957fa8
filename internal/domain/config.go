package domain

import "time"

// Config represents the dmkit configuration loaded from dmkit.yaml.
type Config struct {
	Sphere SphereConfig
	Export ExportConfig
	Kernel KernelConfig
}

type SphereConfig struct {
	Center        Point3
	DefaultRadius float64
	MaxRadius     float64
}

type ExportConfig struct {
	Filename string
	Dir      string
	Compress bool
}

type KernelConfig struct {
	LoadTimeout time.Duration
}

// DefaultConfig provides sane defaults if dmkit.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Sphere: SphereConfig{
			Center:        Point3{X: 1, Y: 2, Z: 3},
			DefaultRadius: 16,
			MaxRadius:     100,
		},
		Export: ExportConfig{
			Filename: "sphere.3dm",
			Dir:      "exports",
		},
		Kernel: KernelConfig{
			LoadTimeout: 10 * time.Second,
		},
	}
}
