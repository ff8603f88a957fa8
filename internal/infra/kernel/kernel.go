// Package kernel is dmkit's geometry kernel: it builds primitives and reads and
// writes the 3DM-lite binary model format. The Gateway hands out a single,
// lazily loaded Kernel to the rest of the application.
package kernel

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

const defaultAppName = "dmkit"

// DefaultMaxTableSize bounds a decompressed object table. It matches the
// largest file the file source accepts.
const DefaultMaxTableSize int64 = 256 << 20

// Kernel is stateless after construction and safe for concurrent use.
type Kernel struct {
	appName  string
	compress bool
	maxTable int64
	newID    func() uuid.UUID
}

type Option func(*Kernel)

// WithCompression zlib-compresses the object table on Serialize.
func WithCompression(enabled bool) Option {
	return func(k *Kernel) { k.compress = enabled }
}

// WithAppName sets the application name written to the properties chunk.
func WithAppName(name string) Option {
	return func(k *Kernel) {
		if name != "" {
			k.appName = name
		}
	}
}

// WithMaxTableSize bounds how large a compressed object table may inflate on
// Deserialize. Zero or negative keeps the default.
func WithMaxTableSize(n int64) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.maxTable = n
		}
	}
}

// WithIDGenerator is useful for tests.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(k *Kernel) {
		if gen != nil {
			k.newID = gen
		}
	}
}

func New(opts ...Option) *Kernel {
	k := &Kernel{
		appName:  defaultAppName,
		maxTable: DefaultMaxTableSize,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

var _ ports.GeometryKernel = (*Kernel)(nil)

func (k *Kernel) NewDocument() *domain.Document {
	return domain.NewDocument()
}

func (k *Kernel) NewSphere(center domain.Point3, radius float64) (domain.Geometry, error) {
	if !domain.ValidRadius(radius) {
		return nil, &domain.OpError{
			Op:   "kernel.new_sphere",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("radius %v must be a positive finite number: %w", radius, domain.ErrInvalidParameter),
		}
	}
	return domain.Sphere{Center: center, Radius: radius}, nil
}

func (k *Kernel) Serialize(doc *domain.Document) ([]byte, error) {
	if doc == nil {
		return nil, &domain.OpError{
			Op:   "kernel.serialize",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("nil document: %w", domain.ErrExecution),
		}
	}

	b, err := encodeDocument(doc, k.appName, k.compress, k.newID)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "kernel.serialize",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return b, nil
}

func (k *Kernel) Deserialize(b []byte) (*domain.Document, error) {
	doc, err := decodeDocument(b, k.maxTable)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "kernel.deserialize",
			Kind: domain.KindMalformedDocument,
			Err:  err,
		}
	}
	return doc, nil
}
