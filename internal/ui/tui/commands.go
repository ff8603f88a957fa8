package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hrntsm/dmkit/internal/app/template"
	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/infra/fsfile"
	"github.com/hrntsm/dmkit/internal/usecase"
)

const (
	exportToast = 6 * time.Second
	importToast = 3 * time.Second

	// Upper bound for a single export or import, kernel wait included.
	opTimeout = time.Minute
)

func cmdWaitKernel(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Kernels == nil {
			return kernelReadyMsg{err: errors.New("no kernel provider configured")}
		}
		_, err := deps.Kernels.Capability(context.Background())
		return kernelReadyMsg{err: err}
	}
}

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, err: errors.New("WorkspaceLocator is nil")}
		}

		root, err := deps.WorkspaceLocator.FindRoot(wd)
		if err != nil {
			return workspaceRefreshedMsg{cwd: wd, err: err}
		}
		return workspaceRefreshedMsg{cwd: wd, found: true, root: root}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}
		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdExport(uc *usecase.ExportShape, pattern string, shape *domain.PendingShape, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		msg := exportDoneMsg{}
		if shape != nil {
			msg.shape = *shape
		}

		filename, err := template.Filename(pattern, shape, time.Now())
		if err != nil {
			log.Error("export.filename.failed", "pattern", pattern, "err", err)
			msg.err = err
			return msg
		}

		log.Info("export.start", "filename", filename, "has_shape", shape != nil)
		msg.location, msg.err = uc.Deliver(ctx, filename, shape)
		if msg.err != nil {
			log.Error("export.failed", "kind", domain.KindOf(msg.err), "err", msg.err)
		} else {
			log.Info("export.ok", "location", msg.location, "radius", msg.shape.Radius)
		}
		return msg
	}
}

func cmdImport(uc *usecase.ImportMetadata, path string, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		path = strings.TrimSpace(path)
		log.Info("import.start", "file", path)

		rows, err := uc.ExecuteSource(ctx, fsfile.NewSource(path))
		if err != nil {
			log.Error("import.failed", "file", path, "kind", domain.KindOf(err), "err", err)
			return importDoneMsg{name: path, err: err}
		}

		log.Info("import.ok", "file", path, "objects", len(rows))
		return importDoneMsg{name: path, rows: rows}
	}
}

func cmdExpireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
