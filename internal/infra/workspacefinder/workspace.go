package workspacefinder

import (
	"path/filepath"

	"github.com/hrntsm/dmkit/internal/domain"
)

// Workspace is a resolved root plus its effective configuration.
type Workspace struct {
	Root   string
	Found  bool
	Config domain.Config
}

// ExportDir is the absolute directory exports are written to.
func (w Workspace) ExportDir() string {
	if filepath.IsAbs(w.Config.Export.Dir) {
		return w.Config.Export.Dir
	}
	return filepath.Join(w.Root, w.Config.Export.Dir)
}

// Open finds the workspace around startDir. Outside a workspace it falls back
// to startDir with default configuration; a broken dmkit.yaml is an error.
func Open(startDir string) (Workspace, error) {
	abs, err := startingDir(startDir)
	if err != nil {
		return Workspace{}, &domain.OpError{
			Op:   "workspacefinder.open",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	root, err := NewFinder().FindRoot(abs)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return Workspace{Root: abs, Config: domain.DefaultConfig()}, nil
		}
		return Workspace{}, err
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return Workspace{}, err
	}
	return Workspace{Root: root, Found: true, Config: cfg}, nil
}
