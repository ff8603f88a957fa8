package ports

import (
	"io"

	"github.com/hrntsm/dmkit/internal/domain"
)

// MetadataPresenter renders extracted metadata rows. A nil rows slice means no
// import has been performed yet.
type MetadataPresenter interface {
	Present(w io.Writer, rows []domain.MetadataRow) error
}
