package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BaseClient owns the write side of a connection. Send is drained by
// WritePump only; producers go through EnqueueContext so that closing
// never races with a send.
type BaseClient struct {
	Conn *websocket.Conn
	Send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewBaseClient(conn *websocket.Conn) *BaseClient {
	return &BaseClient{
		Conn: conn,
		Send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// EnqueueContext queues data for writing, waiting for room in the buffer.
// It fails with ErrClosed once the client is closed, or with ctx.Err().
func (c *BaseClient) EnqueueContext(ctx context.Context, data []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.Send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *BaseClient) Done() <-chan struct{} {
	return c.done
}

func (c *BaseClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *BaseClient) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			c.Conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return
		}
	}
}

// ReadPump reads text frames until the connection fails, handing each
// one to onMessage on the calling goroutine.
func (c *BaseClient) ReadPump(onMessage func(raw []byte)) {
	defer c.Close()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		onMessage(raw)
	}
}
