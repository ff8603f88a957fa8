package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrntsm/dmkit/internal/buildinfo"
	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/infra/kernel"
	"github.com/hrntsm/dmkit/internal/infra/logger"
	"github.com/hrntsm/dmkit/internal/infra/workspacefinder"
)

type workspaceCtx struct {
	root      string
	found     bool
	cfg       domain.Config
	exportDir string
}

// loadWorkspace resolves the workspace from an explicit flag or the working
// directory. Without a dmkit.yaml the defaults apply.
func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	start, err := resolveStartDir(workspaceFlag)
	if err != nil {
		return nil, err
	}

	ws, err := workspacefinder.Open(start)
	if err != nil {
		return nil, err
	}

	return &workspaceCtx{
		root:      ws.Root,
		found:     ws.Found,
		cfg:       ws.Config,
		exportDir: ws.ExportDir(),
	}, nil
}

func resolveStartDir(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}

// newGateway starts loading the kernel in the background so that it is
// usually ready by the time a command needs it.
func newGateway(cfg domain.Config) *kernel.Gateway {
	gw := kernel.NewGateway(
		kernel.Load(
			kernel.WithCompression(cfg.Export.Compress),
			kernel.WithAppName("dmkit "+buildinfo.Version),
		),
		kernel.WithLoadTimeout(cfg.Kernel.LoadTimeout),
		kernel.WithLogger(logger.Component("kernel")),
	)
	gw.Start()
	return gw
}
