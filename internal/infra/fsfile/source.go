package fsfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

// DefaultMaxSize bounds how much of an uploaded file is read.
const DefaultMaxSize int64 = 256 << 20

// Source reads a user-selected file from disk.
type Source struct {
	path    string
	maxSize int64
}

func NewSource(path string) *Source {
	return &Source{path: path, maxSize: DefaultMaxSize}
}

// Sources wraps every path in a Source.
func Sources(paths []string) []ports.FileSource {
	out := make([]ports.FileSource, 0, len(paths))
	for _, p := range paths {
		out = append(out, NewSource(p))
	}
	return out
}

var _ ports.FileSource = (*Source)(nil)

func (s *Source) Name() string { return s.path }

func (s *Source) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{
			Op:   "fsfile.read",
			Kind: kind,
			Path: s.path,
			Err:  err,
		}
	}
	defer f.Close()

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		return nil, &domain.OpError{
			Op:   "fsfile.read",
			Kind: domain.KindInvalidParameter,
			Path: s.path,
			Err:  fmt.Errorf("is a directory: %w", domain.ErrInvalidParameter),
		}
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, &ctxReader{ctx: ctx, r: io.LimitReader(f, s.maxSize+1)})
	if err != nil {
		return nil, &domain.OpError{
			Op:   "fsfile.read",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	if n > s.maxSize {
		return nil, &domain.OpError{
			Op:   "fsfile.read",
			Kind: domain.KindInvalidParameter,
			Path: s.path,
			Err:  fmt.Errorf("file too large: %w", domain.ErrInvalidParameter),
		}
	}
	return buf.Bytes(), nil
}

// ctxReader stops a long read once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
