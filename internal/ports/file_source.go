package ports

import "context"

// FileSource provides the raw bytes of a user-selected file.
type FileSource interface {
	Name() string
	ReadAll(ctx context.Context) ([]byte, error)
}
