package tui

import (
	"log/slog"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

type Deps struct {
	Config         domain.Config
	WorkspaceRoot  string
	WorkspaceFound bool
	ExportDir      string

	Kernels              ports.CapabilityProvider
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	Logger *slog.Logger
	Debug  bool
}
