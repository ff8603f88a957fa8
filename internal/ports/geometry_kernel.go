package ports

import "github.com/hrntsm/dmkit/internal/domain"

// GeometryKernel builds primitives and encodes/decodes model documents.
// Implementations are shared by all callers and must be safe for concurrent use.
type GeometryKernel interface {
	NewDocument() *domain.Document
	NewSphere(center domain.Point3, radius float64) (domain.Geometry, error)
	Serialize(doc *domain.Document) ([]byte, error)
	Deserialize(b []byte) (*domain.Document, error)
}
