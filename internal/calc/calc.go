// Package calc is the two-field calculator UI model. It holds the inputs,
// calls the host whenever both are filled in, and shows the latest sum.
package calc

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arko-chat/webuicall/internal/bridge"
	"github.com/arko-chat/webuicall/internal/host"
	lru "github.com/hashicorp/golang-lru/v2"
)

// State is what the calculator displays.
type State struct {
	X   string
	Y   string
	Sum string
	Err error
}

type Options struct {
	// Legacy calls "add" with positional string arguments and a bare
	// string response instead of "add2" with an envelope.
	Legacy bool
	// CallTimeout bounds each host call. Zero means no bound.
	CallTimeout time.Duration
	// CacheSize is the number of operand pairs whose sums are kept.
	// Zero disables caching.
	CacheSize int
	OnChange  func(State)
	Logger    *slog.Logger
}

type Calculator struct {
	b     bridge.Bridge
	opts  Options
	cache *lru.Cache[host.Operands, string]

	mu       sync.Mutex
	state    State
	inflight sync.WaitGroup
}

func New(b bridge.Bridge, opts Options) (*Calculator, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Calculator{b: b, opts: opts}
	if opts.CacheSize > 0 {
		cache, err := lru.New[host.Operands, string](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Calculator) SetX(ctx context.Context, v string) {
	c.mu.Lock()
	c.state.X = v
	c.mu.Unlock()
	c.recompute(ctx)
}

func (c *Calculator) SetY(ctx context.Context, v string) {
	c.mu.Lock()
	c.state.Y = v
	c.mu.Unlock()
	c.recompute(ctx)
}

// Wait blocks until every call issued so far has been applied.
func (c *Calculator) Wait() {
	c.inflight.Wait()
}

func (c *Calculator) recompute(ctx context.Context) {
	c.mu.Lock()
	x, y := c.state.X, c.state.Y
	c.mu.Unlock()

	if x == "" || y == "" {
		return
	}

	ops, err := parseOperands(x, y)
	if err != nil {
		c.apply(func(s *State) { s.Err = err })
		return
	}

	if c.cache != nil {
		if sum, ok := c.cache.Get(ops); ok {
			c.apply(func(s *State) { s.Sum, s.Err = sum, nil })
			return
		}
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		callCtx := ctx
		if c.opts.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.opts.CallTimeout)
			defer cancel()
		}

		sum, err := c.call(callCtx, x, y, ops)
		if err != nil {
			c.opts.Logger.Debug("calculator call failed", "x", x, "y", y, "err", err)
			c.apply(func(s *State) { s.Err = err })
			return
		}
		if c.cache != nil {
			c.cache.Add(ops, sum)
		}
		c.apply(func(s *State) { s.Sum, s.Err = sum, nil })
	}()
}

func (c *Calculator) call(ctx context.Context, x, y string, ops host.Operands) (string, error) {
	if c.opts.Legacy {
		return bridge.CallString(ctx, c.b, "add", x, y)
	}
	sum, err := bridge.Call[float64](ctx, c.b, "add2", ops)
	if err != nil {
		return "", err
	}
	return host.FormatNumber(sum), nil
}

// apply updates the state in arrival order and notifies OnChange.
func (c *Calculator) apply(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	s := c.state
	c.mu.Unlock()

	if c.opts.OnChange != nil {
		c.opts.OnChange(s)
	}
}

func parseOperands(x, y string) (host.Operands, error) {
	fx, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return host.Operands{}, fmt.Errorf("x: %q is not a number", x)
	}
	fy, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return host.Operands{}, fmt.Errorf("y: %q is not a number", y)
	}
	return host.Operands{X: fx, Y: fy}, nil
}
