package usecase

import (
	"context"
	"fmt"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

type ExportShape struct {
	kernels ports.CapabilityProvider
	sink    ports.FileSink
}

func NewExportShape(kp ports.CapabilityProvider, sink ports.FileSink) *ExportShape {
	return &ExportShape{
		kernels: kp,
		sink:    sink,
	}
}

// Execute builds a fresh document holding shape and serializes it.
func (uc *ExportShape) Execute(ctx context.Context, shape *domain.PendingShape) ([]byte, error) {
	if shape == nil {
		return nil, &domain.OpError{
			Op:   "export.execute",
			Kind: domain.KindNoShape,
			Err:  domain.ErrNoShape,
		}
	}

	k, err := uc.kernels.Capability(ctx)
	if err != nil {
		return nil, err
	}

	doc := k.NewDocument()

	geom, err := buildGeometry(k, *shape)
	if err != nil {
		return nil, err
	}

	// No attributes: exported objects carry no user strings.
	doc.Objects().Add(geom, nil)

	return k.Serialize(doc)
}

// Deliver exports shape and hands the bytes to the file sink. The sink is not
// touched when the export fails.
func (uc *ExportShape) Deliver(ctx context.Context, filename string, shape *domain.PendingShape) (string, error) {
	b, err := uc.Execute(ctx, shape)
	if err != nil {
		return "", err
	}
	if uc.sink == nil {
		return "", &domain.OpError{
			Op:   "export.deliver",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("no file sink configured: %w", domain.ErrExecution),
		}
	}
	return uc.sink.Deliver(ctx, filename, b)
}

func buildGeometry(k ports.GeometryKernel, shape domain.PendingShape) (domain.Geometry, error) {
	switch shape.Kind {
	case domain.ShapeSphere:
		return k.NewSphere(shape.Center, shape.Radius)
	default:
		return nil, &domain.OpError{
			Op:   "export.build_geometry",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("unsupported shape %s: %w", shape.Kind, domain.ErrInvalidParameter),
		}
	}
}
