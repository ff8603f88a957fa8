package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

type ImportMetadata struct {
	kernels ports.CapabilityProvider
}

func NewImportMetadata(kp ports.CapabilityProvider) *ImportMetadata {
	return &ImportMetadata{kernels: kp}
}

// Execute decodes b into a fresh document and returns one metadata row per
// object, in object-table order. On failure rows is nil.
func (uc *ImportMetadata) Execute(ctx context.Context, b []byte) ([]domain.MetadataRow, error) {
	if len(b) == 0 {
		return nil, &domain.OpError{
			Op:   "import.execute",
			Kind: domain.KindMalformedDocument,
			Err:  fmt.Errorf("empty input: %w", domain.ErrMalformedDocument),
		}
	}

	k, err := uc.kernels.Capability(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := k.Deserialize(b)
	if err != nil {
		if domain.IsKind(err, domain.KindMalformedDocument) {
			return nil, err
		}
		return nil, &domain.OpError{
			Op:   "import.execute",
			Kind: domain.KindMalformedDocument,
			Err:  fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err),
		}
	}

	return domain.ExtractMetadata(doc), nil
}

// ExecuteSource reads every byte from src and delegates to Execute.
func (uc *ImportMetadata) ExecuteSource(ctx context.Context, src ports.FileSource) ([]domain.MetadataRow, error) {
	if src == nil {
		return nil, &domain.OpError{
			Op:   "import.read",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no file selected: %w", domain.ErrNotFound),
		}
	}

	b, err := src.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := uc.Execute(ctx, b)
	if err != nil {
		var oe *domain.OpError
		if errors.As(err, &oe) && oe.Path == "" {
			cp := *oe
			cp.Path = src.Name()
			return nil, &cp
		}
		return nil, err
	}
	return rows, nil
}
