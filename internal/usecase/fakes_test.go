package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/infra/kernel"
	"github.com/hrntsm/dmkit/internal/ports"
)

// --- fakes used across use case tests ---

// staticProvider returns a fixed kernel (or error) and counts calls.
type staticProvider struct {
	k     ports.GeometryKernel
	err   error
	calls atomic.Int32
}

func newKernelProvider(opts ...kernel.Option) *staticProvider {
	return &staticProvider{k: kernel.New(opts...)}
}

func (p *staticProvider) Capability(_ context.Context) (ports.GeometryKernel, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.k, nil
}

type recordingSink struct {
	calls    int
	filename string
	data     []byte
	err      error
}

func (s *recordingSink) Deliver(_ context.Context, filename string, b []byte) (string, error) {
	s.calls++
	s.filename = filename
	s.data = append([]byte(nil), b...)
	if s.err != nil {
		return "", s.err
	}
	return "/downloads/" + filename, nil
}

type memSource struct {
	name string
	data []byte
	err  error
}

func (m memSource) Name() string { return m.name }

func (m memSource) ReadAll(_ context.Context) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

// rawKernel fails Deserialize with a plain error, like a foreign kernel would.
type rawKernel struct {
	ports.GeometryKernel
}

func (rawKernel) Deserialize(_ []byte) (*domain.Document, error) {
	return nil, errors.New("bad magic")
}

// memStore keeps saved reports in memory; it is called from errgroup workers.
type memStore struct {
	mu      sync.Mutex
	reports []domain.InspectionReport
	err     error
}

func (s *memStore) SaveReport(r domain.InspectionReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.reports = append(s.reports, r)
	return "id-" + r.Source, nil
}

var (
	_ ports.ReportStore        = (*memStore)(nil)
	_ ports.CapabilityProvider = (*staticProvider)(nil)
	_ ports.FileSink           = (*recordingSink)(nil)
	_ ports.FileSource         = memSource{}
)
