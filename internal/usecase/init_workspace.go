package usecase

import (
	"path/filepath"
	"strings"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

// Execute lays out a workspace at root ("" means the working directory) and
// returns its absolute path.
func (uc *InitWorkspace) Execute(root string, force bool) (string, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspace.init",
			Kind: domain.KindInvalidParameter,
			Path: root,
			Err:  err,
		}
	}

	if err := uc.initializer.Init(domain.WorkspaceSpec{Root: abs}, force); err != nil {
		return "", err
	}
	return abs, nil
}
