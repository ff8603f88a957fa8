package kernel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

const DefaultLoadTimeout = 10 * time.Second

// Loader produces the geometry kernel. It runs at most once per Gateway.
type Loader func(ctx context.Context) (ports.GeometryKernel, error)

// Load returns a Loader that builds a Kernel and checks that an empty
// document survives an encode/decode cycle before declaring it ready.
func Load(opts ...Option) Loader {
	return func(ctx context.Context) (ports.GeometryKernel, error) {
		k := New(opts...)

		b, err := k.Serialize(k.NewDocument())
		if err != nil {
			return nil, fmt.Errorf("kernel self-check: %w", err)
		}
		if _, err := k.Deserialize(b); err != nil {
			return nil, fmt.Errorf("kernel self-check: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return k, nil
	}
}

// Gateway is a memoized asynchronous factory for the process-wide kernel.
//
// Loading starts on Start or on the first Capability call. Callers that arrive
// while loading is in flight wait on the same readiness channel. The result,
// success or failure, is kept for the lifetime of the Gateway.
type Gateway struct {
	load    Loader
	timeout time.Duration
	log     *slog.Logger

	once   sync.Once
	ready  chan struct{}
	kernel ports.GeometryKernel
	err    error
}

type GatewayOption func(*Gateway)

// WithLoadTimeout bounds how long a single Capability call waits for loading.
// Zero or negative disables the bound.
func WithLoadTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

func WithLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGateway(load Loader, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		load:    load,
		timeout: DefaultLoadTimeout,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ ports.CapabilityProvider = (*Gateway)(nil)

// Start begins loading in the background. Calling it more than once is a no-op.
func (g *Gateway) Start() {
	g.once.Do(func() {
		g.log.Info("kernel.load.start")
		go g.run()
	})
}

func (g *Gateway) run() {
	defer close(g.ready)

	started := time.Now()
	if g.load == nil {
		g.err = errors.New("no kernel loader configured")
	} else {
		g.kernel, g.err = g.load(context.Background())
		if g.err == nil && g.kernel == nil {
			g.err = errors.New("kernel loader returned nil")
		}
	}

	if g.err != nil {
		g.log.Error("kernel.load.failed", "err", g.err, "elapsed_ms", time.Since(started).Milliseconds())
		return
	}
	g.log.Info("kernel.loaded", "elapsed_ms", time.Since(started).Milliseconds())
}

// Capability waits for the kernel. It fails with KindCapabilityUnavailable when
// loading failed, the load timeout elapses, or ctx is done.
func (g *Gateway) Capability(ctx context.Context) (ports.GeometryKernel, error) {
	g.Start()

	var timeout <-chan time.Time
	if g.timeout > 0 {
		t := time.NewTimer(g.timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-g.ready:
		if g.err != nil {
			return nil, unavailable(g.err)
		}
		return g.kernel, nil

	case <-timeout:
		g.log.Warn("kernel.wait.timeout", "timeout", g.timeout.String())
		return nil, unavailable(fmt.Errorf("not ready after %s", g.timeout))

	case <-ctx.Done():
		return nil, unavailable(ctx.Err())
	}
}

func unavailable(err error) error {
	return &domain.OpError{
		Op:   "kernel.capability",
		Kind: domain.KindCapabilityUnavailable,
		Err:  fmt.Errorf("%w: %w", domain.ErrCapabilityUnavailable, err),
	}
}
