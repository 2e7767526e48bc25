package bridge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultPollInterval = 200 * time.Millisecond
	LegacyPollInterval  = 100 * time.Millisecond
)

// Gate is a one-shot readiness signal. Whoever owns the bridge provides
// it once; everyone else waits on the gate instead of probing a global.
type Gate struct {
	once  sync.Once
	ready chan struct{}
	b     Bridge
}

func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

// Provide opens the gate. Only the first call has any effect.
func (g *Gate) Provide(b Bridge) bool {
	if b == nil {
		return false
	}
	provided := false
	g.once.Do(func() {
		g.b = b
		close(g.ready)
		provided = true
	})
	return provided
}

func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

func (g *Gate) Bridge() (Bridge, bool) {
	select {
	case <-g.ready:
		return g.b, true
	default:
		return nil, false
	}
}

// Wait blocks until a bridge is provided or ctx is done.
func (g *Gate) Wait(ctx context.Context) (Bridge, error) {
	select {
	case <-g.ready:
		return g.b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ProvideFrom polls lookup in the background and provides the first
// bridge it returns.
func (g *Gate) ProvideFrom(ctx context.Context, interval time.Duration, lookup func() (Bridge, error)) {
	go func() {
		b, err := Poll(ctx, interval, lookup)
		if err != nil {
			return
		}
		g.Provide(b)
	}()
}

// Poll calls lookup every interval until it returns a bridge. A nil
// bridge and a non-nil error both count as "not yet".
func Poll(ctx context.Context, interval time.Duration, lookup func() (Bridge, error)) (Bridge, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var found Bridge
	op := func() error {
		b, err := lookup()
		if err != nil {
			return err
		}
		if b == nil {
			return errNotReady
		}
		found = b
		return nil
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return found, nil
}

var errNotReady = errors.New("bridge: not ready")

// Mounter runs a mount function after the gate opens, until it succeeds
// once. A failed mount leaves the Mounter unmounted so a later call can
// try again.
type Mounter struct {
	mu      sync.Mutex
	mounted chan struct{}
}

func NewMounter() *Mounter {
	return &Mounter{mounted: make(chan struct{})}
}

// Mount waits for g and then runs fn unless an earlier call already
// mounted. It reports whether this call performed the mount. Concurrent
// callers are serialized, so fn never runs twice at once.
func (m *Mounter) Mount(ctx context.Context, g *Gate, fn func(Bridge) error) (bool, error) {
	b, err := g.Wait(ctx)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Mounted() {
		return false, nil
	}
	if err := fn(b); err != nil {
		return false, err
	}
	close(m.mounted)
	return true, nil
}

func (m *Mounter) Mounted() bool {
	select {
	case <-m.mounted:
		return true
	default:
		return false
	}
}
