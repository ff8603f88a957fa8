package fsfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

// DirSink saves exported documents into a directory, the CLI equivalent of a
// browser download.
type DirSink struct {
	dir       string
	overwrite bool
}

type Option func(*DirSink)

// WithOverwrite replaces existing files instead of picking a free name.
func WithOverwrite(enabled bool) Option {
	return func(s *DirSink) { s.overwrite = enabled }
}

func NewDirSink(dir string, opts ...Option) *DirSink {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	s := &DirSink{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.FileSink = (*DirSink)(nil)

func (s *DirSink) Deliver(ctx context.Context, filename string, b []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", &domain.OpError{
			Op:   "fsfile.deliver",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("invalid filename %q: %w", filename, domain.ErrInvalidParameter),
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "fsfile.mkdir",
			Kind: domain.KindExecution,
			Path: s.dir,
			Err:  err,
		}
	}

	path := filepath.Join(s.dir, name)
	if !s.overwrite {
		path = freePath(path)
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", &domain.OpError{
			Op:   "fsfile.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "fsfile.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	return path, nil
}

// freePath returns path, or "name (n).ext" like a browser does when the file
// already exists.
func freePath(path string) string {
	if !exists(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		p := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if !exists(p) {
			return p
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
