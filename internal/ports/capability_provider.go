package ports

import "context"

// CapabilityProvider hands out the process-wide geometry kernel once it is ready.
type CapabilityProvider interface {
	Capability(ctx context.Context) (GeometryKernel, error)
}
