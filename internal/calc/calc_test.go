package calc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arko-chat/webuicall/internal/bridge"
	"github.com/arko-chat/webuicall/internal/envelope"
	"github.com/arko-chat/webuicall/internal/host"
	"github.com/arko-chat/webuicall/internal/logger"
)

// fakeHost answers add and add2 the way the demo host does.
type fakeHost struct {
	calls atomic.Int32
	err   string
}

func (f *fakeHost) Call(ctx context.Context, fn string, args ...any) (string, error) {
	f.calls.Add(1)
	switch fn {
	case "add":
		if len(args) != 2 {
			return "", errors.New("add: bad arity")
		}
		return "legacy:" + args[0].(string) + "+" + args[1].(string), nil
	case "add2":
		if f.err != "" {
			data, _ := envelope.Encode(envelope.NewErr(f.err))
			return string(data), nil
		}
		var ops host.Operands
		if err := json.Unmarshal([]byte(args[0].(string)), &ops); err != nil {
			return "", err
		}
		ok, _ := envelope.NewOk(ops.X + ops.Y)
		data, _ := envelope.Encode(ok)
		return string(data), nil
	}
	return "", errors.New("unknown function")
}

func newCalc(t *testing.T, b bridge.Bridge, opts Options) *Calculator {
	t.Helper()
	opts.Logger = logger.Discard()
	c, err := New(b, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNoCallUntilBothSet(t *testing.T) {
	h := &fakeHost{}
	c := newCalc(t, h, Options{})
	ctx := context.Background()

	c.SetX(ctx, "2")
	c.Wait()
	if n := h.calls.Load(); n != 0 {
		t.Fatalf("%d calls with only x set", n)
	}

	c.SetY(ctx, "3")
	c.Wait()
	if got := c.State(); got.Sum != "5" || got.Err != nil {
		t.Errorf("state = %+v, want Sum 5", got)
	}

	c.SetY(ctx, "")
	c.Wait()
	if n := h.calls.Load(); n != 1 {
		t.Errorf("%d calls, want 1 after clearing y", n)
	}
	if got := c.State(); got.Sum != "5" {
		t.Errorf("sum changed to %q after clearing y", got.Sum)
	}
}

func TestLegacyAdd(t *testing.T) {
	h := &fakeHost{}
	c := newCalc(t, h, Options{Legacy: true})
	ctx := context.Background()

	c.SetX(ctx, "2")
	c.SetY(ctx, "3")
	c.Wait()

	if got := c.State().Sum; got != "legacy:2+3" {
		t.Errorf("Sum = %q", got)
	}
}

func TestInvalidNumber(t *testing.T) {
	h := &fakeHost{}
	c := newCalc(t, h, Options{})
	ctx := context.Background()

	c.SetX(ctx, "two")
	c.SetY(ctx, "3")
	c.Wait()

	got := c.State()
	if got.Err == nil || !strings.Contains(got.Err.Error(), `"two"`) {
		t.Errorf("Err = %v", got.Err)
	}
	if n := h.calls.Load(); n != 0 {
		t.Errorf("%d calls for invalid input", n)
	}
}

func TestHostError(t *testing.T) {
	h := &fakeHost{err: "bad input"}
	c := newCalc(t, h, Options{})
	ctx := context.Background()

	c.SetX(ctx, "1")
	c.SetY(ctx, "1")
	c.Wait()

	var remote *envelope.RemoteError
	if err := c.State().Err; !errors.As(err, &remote) || err.Error() != "bad input" {
		t.Errorf("Err = %v, want RemoteError bad input", err)
	}
}

func TestCache(t *testing.T) {
	h := &fakeHost{}
	c := newCalc(t, h, Options{CacheSize: 8})
	ctx := context.Background()

	c.SetX(ctx, "2")
	c.SetY(ctx, "3")
	c.Wait()
	c.SetY(ctx, "4")
	c.Wait()
	c.SetY(ctx, "3.0")
	c.Wait()

	if n := h.calls.Load(); n != 2 {
		t.Errorf("%d host calls, want 2", n)
	}
	if got := c.State().Sum; got != "5" {
		t.Errorf("Sum = %q", got)
	}
}

func TestOnChange(t *testing.T) {
	h := &fakeHost{}
	var mu sync.Mutex
	var seen []State
	c := newCalc(t, h, Options{OnChange: func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}})
	ctx := context.Background()

	c.SetX(ctx, "1")
	c.SetY(ctx, "2")
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0].Sum != "3" {
		t.Errorf("OnChange saw %+v", seen)
	}
}

func TestCallTimeout(t *testing.T) {
	slow := bridge.Func(func(ctx context.Context, fn string, args ...any) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	c := newCalc(t, slow, Options{CallTimeout: 10 * time.Millisecond})
	ctx := context.Background()

	c.SetX(ctx, "1")
	c.SetY(ctx, "2")
	c.Wait()

	if err := c.State().Err; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want deadline exceeded", err)
	}
}

func TestAppMountsOnce(t *testing.T) {
	app := NewApp(Options{Logger: logger.Discard()})
	g := bridge.NewGate()

	results := make(chan *Calculator, 3)
	for i := 0; i < 3; i++ {
		go func() {
			c, err := app.Run(context.Background(), g)
			if err != nil {
				t.Errorf("Run: %v", err)
			}
			results <- c
		}()
	}

	time.Sleep(5 * time.Millisecond)
	if app.Mounted() {
		t.Fatal("mounted before bridge was provided")
	}

	g.Provide(&fakeHost{})

	first := <-results
	for i := 0; i < 2; i++ {
		if c := <-results; c != first {
			t.Error("Run returned a different calculator")
		}
	}
	if first == nil {
		t.Fatal("Run returned nil calculator")
	}

	ctx := context.Background()
	first.SetX(ctx, "2")
	first.SetY(ctx, "3")
	first.Wait()
	if got := first.State().Sum; got != "5" {
		t.Errorf("Sum = %q", got)
	}
}

func TestAppRunCancelled(t *testing.T) {
	app := NewApp(Options{Logger: logger.Discard()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := app.Run(ctx, bridge.NewGate()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want canceled", err)
	}
	if app.Mounted() {
		t.Error("mounted without a bridge")
	}
}
