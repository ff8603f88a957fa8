package kernel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockingLoader counts calls and waits for release before returning k.
type blockingLoader struct {
	calls   atomic.Int32
	release chan struct{}
	k       ports.GeometryKernel
	err     error
}

func newBlockingLoader(k ports.GeometryKernel, err error) *blockingLoader {
	return &blockingLoader{release: make(chan struct{}), k: k, err: err}
}

func (b *blockingLoader) Load(_ context.Context) (ports.GeometryKernel, error) {
	b.calls.Add(1)
	<-b.release
	return b.k, b.err
}

func TestGateway_ConcurrentCallersShareOneKernel(t *testing.T) {
	want := New()
	bl := newBlockingLoader(want, nil)
	g := NewGateway(bl.Load, WithLoadTimeout(5*time.Second))

	const callers = 16
	var wg sync.WaitGroup
	got := make([]ports.GeometryKernel, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = g.Capability(context.Background())
		}(i)
	}

	// Every caller is queued behind the same load.
	time.Sleep(20 * time.Millisecond)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Capability(canceled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected gateway still loading before release, got %v", err)
	}
	close(bl.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if got[i] != want {
			t.Fatalf("caller %d: expected the shared kernel instance", i)
		}
	}
	if n := bl.calls.Load(); n != 1 {
		t.Fatalf("expected loader to run once, ran %d times", n)
	}

	again, err := g.Capability(context.Background())
	if err != nil || again != want {
		t.Fatalf("expected memoized kernel, got %v err=%v", again, err)
	}
	if n := bl.calls.Load(); n != 1 {
		t.Fatalf("expected no re-initialization, loader ran %d times", n)
	}
}

func TestGateway_StartIsIdempotent(t *testing.T) {
	bl := newBlockingLoader(New(), nil)
	g := NewGateway(bl.Load)

	g.Start()
	g.Start()
	close(bl.release)

	if _, err := g.Capability(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := bl.calls.Load(); n != 1 {
		t.Fatalf("expected 1 load, got %d", n)
	}
}

func TestGateway_TimeoutIsCapabilityUnavailable(t *testing.T) {
	bl := newBlockingLoader(New(), nil)
	g := NewGateway(bl.Load, WithLoadTimeout(10*time.Millisecond))

	_, err := g.Capability(context.Background())
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !domain.IsKind(err, domain.KindCapabilityUnavailable) {
		t.Fatalf("expected KindCapabilityUnavailable, got %v", err)
	}
	if !errors.Is(err, domain.ErrCapabilityUnavailable) {
		t.Fatalf("expected ErrCapabilityUnavailable in chain, got %v", err)
	}

	// A late load still serves later callers.
	close(bl.release)
	<-g.ready

	if _, err := g.Capability(context.Background()); err != nil {
		t.Fatalf("expected kernel after late load, got %v", err)
	}
	if n := bl.calls.Load(); n != 1 {
		t.Fatalf("expected 1 load, got %d", n)
	}
}

func TestGateway_LoadFailureIsMemoized(t *testing.T) {
	loadErr := errors.New("wasm module failed")
	bl := newBlockingLoader(nil, loadErr)
	close(bl.release)
	g := NewGateway(bl.Load)

	for i := 0; i < 3; i++ {
		_, err := g.Capability(context.Background())
		if !domain.IsKind(err, domain.KindCapabilityUnavailable) {
			t.Fatalf("attempt %d: expected KindCapabilityUnavailable, got %v", i, err)
		}
		if !errors.Is(err, loadErr) {
			t.Fatalf("attempt %d: expected load error in chain, got %v", i, err)
		}
	}
	if n := bl.calls.Load(); n != 1 {
		t.Fatalf("expected failed load not to be retried, got %d calls", n)
	}
}

func TestGateway_NilKernelIsUnavailable(t *testing.T) {
	bl := newBlockingLoader(nil, nil)
	close(bl.release)
	g := NewGateway(bl.Load)

	if _, err := g.Capability(context.Background()); !domain.IsKind(err, domain.KindCapabilityUnavailable) {
		t.Fatalf("expected KindCapabilityUnavailable, got %v", err)
	}
}

func TestGateway_ContextCancel(t *testing.T) {
	bl := newBlockingLoader(New(), nil)
	g := NewGateway(bl.Load, WithLoadTimeout(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Capability(ctx)
	if !domain.IsKind(err, domain.KindCapabilityUnavailable) {
		t.Fatalf("expected KindCapabilityUnavailable, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}

	close(bl.release)
	<-g.ready
}

func TestLoad_ReturnsWorkingKernel(t *testing.T) {
	g := NewGateway(Load(WithCompression(true)))

	k, err := g.Capability(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := k.(*Kernel); !ok {
		t.Fatalf("expected *Kernel, got %T", k)
	}
}
