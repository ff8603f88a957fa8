package domain

// WorkspaceSpec describes where a dmkit workspace is created.
type WorkspaceSpec struct {
	Root string
}
