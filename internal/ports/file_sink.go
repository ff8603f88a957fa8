package ports

import "context"

// FileSink delivers an exported document to the user (e.g., writes it to disk).
type FileSink interface {
	Deliver(ctx context.Context, filename string, b []byte) (location string, err error)
}
