package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

const defaultInspectParallelism = 4

// FileReport is the outcome of importing a single file.
type FileReport struct {
	Name    string
	Rows    []domain.MetadataRow
	Err     error
	SavedID string
}

// InspectFiles imports several files concurrently. Each import decodes into its
// own document; only the kernel is shared.
type InspectFiles struct {
	importer *ImportMetadata
	store    ports.ReportStore
	limit    int
}

type InspectOption func(*InspectFiles)

func WithParallelism(n int) InspectOption {
	return func(uc *InspectFiles) {
		if n > 0 {
			uc.limit = n
		}
	}
}

// WithReportStore saves every successful import to store.
func WithReportStore(store ports.ReportStore) InspectOption {
	return func(uc *InspectFiles) { uc.store = store }
}

func NewInspectFiles(importer *ImportMetadata, opts ...InspectOption) *InspectFiles {
	uc := &InspectFiles{
		importer: importer,
		limit:    defaultInspectParallelism,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute returns one report per source, in input order. Per-file failures are
// recorded in the report; the returned error is non-nil only when ctx ends
// before every file was attempted. A failed save keeps the rows and sets Err.
func (uc *InspectFiles) Execute(ctx context.Context, sources []ports.FileSource) ([]FileReport, error) {
	reports := make([]FileReport, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.limit)

	for i, src := range sources {
		i, src := i, src
		name := ""
		if src != nil {
			name = src.Name()
		}
		reports[i].Name = name

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				reports[i].Err = err
				return err
			}
			rows, err := uc.importer.ExecuteSource(gctx, src)
			reports[i].Rows = rows
			reports[i].Err = err
			if err == nil && uc.store != nil {
				reports[i].SavedID, reports[i].Err = uc.store.SaveReport(domain.InspectionReport{
					Source:  name,
					Objects: rows,
				})
			}
			return nil
		})
	}

	err := g.Wait()
	return reports, err
}

// Failed counts reports carrying an error.
func Failed(reports []FileReport) int {
	n := 0
	for _, r := range reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}
