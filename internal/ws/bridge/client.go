package bridgews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/arko-chat/webuicall/internal/bridge"
	"github.com/arko-chat/webuicall/internal/ws"
	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v4"
)

var _ bridge.Bridge = (*Client)(nil)

type reply struct {
	resp string
	err  error
}

// Client is a bridge.Bridge that forwards calls to a host over its
// websocket endpoint.
type Client struct {
	*ws.BaseClient

	logger  *slog.Logger
	nextID  atomic.Uint64
	pending *xsync.Map[uint64, chan reply]

	readyOnce sync.Once
	ready     chan struct{}
	functions []string
}

type Options struct {
	Token  string
	Header http.Header
	Logger *slog.Logger
}

// Dial connects to a host endpoint such as ws://127.0.0.1:8080/webui.
// The returned client becomes usable once Ready is closed.
func Dial(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if opts.Token != "" {
		q := u.Query()
		q.Set("token", opts.Token)
		u.RawQuery = q.Encode()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		BaseClient: ws.NewBaseClient(conn),
		logger:     logger,
		pending:    xsync.NewMap[uint64, chan reply](),
		ready:      make(chan struct{}),
	}

	go c.WritePump()
	go func() {
		c.ReadPump(c.handle)
		c.failPending()
	}()

	return c, nil
}

func (c *Client) handle(raw []byte) {
	var f ws.Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.logger.Debug("bridge ignoring malformed frame", "err", err)
		return
	}

	switch f.Kind {
	case ws.KindReady:
		c.readyOnce.Do(func() {
			c.functions = f.Functions
			close(c.ready)
		})
	case ws.KindReply:
		ch, ok := c.pending.LoadAndDelete(f.ID)
		if !ok {
			return
		}
		if f.Error != "" {
			ch <- reply{err: &ws.CallError{Fn: f.Fn, Message: f.Error}}
			return
		}
		ch <- reply{resp: f.Resp}
	}
}

func (c *Client) failPending() {
	c.pending.Range(func(id uint64, ch chan reply) bool {
		if _, ok := c.pending.LoadAndDelete(id); ok {
			ch <- reply{err: ws.ErrClosed}
		}
		return true
	})
}

// Ready is closed once the host has announced itself.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// Functions lists what the host announced as bound. It is empty until
// Ready is closed.
func (c *Client) Functions() []string {
	select {
	case <-c.ready:
		return c.functions
	default:
		return nil
	}
}

// ProvideTo opens g as soon as the host is ready.
func (c *Client) ProvideTo(g *bridge.Gate) {
	go func() {
		select {
		case <-c.ready:
			g.Provide(c)
		case <-c.Done():
		}
	}()
}

func (c *Client) Call(ctx context.Context, fn string, args ...any) (string, error) {
	if err := bridge.ValidateArgs(args); err != nil {
		return "", err
	}

	raw := make([]json.RawMessage, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("encode argument %d: %w", i, err)
		}
		raw[i] = b
	}

	id := c.nextID.Add(1)
	ch := make(chan reply, 1)
	c.pending.Store(id, ch)

	frame := ws.Frame{Kind: ws.KindCall, ID: id, Fn: fn, Args: raw}
	if err := c.EnqueueContext(ctx, frame.Marshal()); err != nil {
		c.pending.Delete(id)
		return "", err
	}

	select {
	case r := <-ch:
		if ce, ok := r.err.(*ws.CallError); ok && ce.Fn == "" {
			ce.Fn = fn
		}
		return r.resp, r.err
	case <-c.Done():
		c.pending.Delete(id)
		return "", ws.ErrClosed
	case <-ctx.Done():
		c.pending.Delete(id)
		return "", ctx.Err()
	}
}
