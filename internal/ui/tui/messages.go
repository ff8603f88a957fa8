package tui

import "github.com/hrntsm/dmkit/internal/domain"

type kernelReadyMsg struct {
	err error
}

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type exportDoneMsg struct {
	location string
	shape    domain.PendingShape
	err      error
}

type importDoneMsg struct {
	name string
	rows []domain.MetadataRow
	err  error
}

type toastExpiredMsg struct {
	id int
}
