package ws

import (
	"log/slog"

	"github.com/puzpuzpuz/xsync/v4"
)

var _ WSClient = (*BaseClient)(nil)

// Hub tracks the UI connections attached to the host, keyed by a
// per-connection id.
type Hub struct {
	clients *xsync.Map[string, WSClient]
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: xsync.NewMap[string, WSClient](),
		logger:  logger,
	}
}

func (h *Hub) Register(key string, c WSClient) {
	h.clients.Store(key, c)
	h.logger.Debug("ws register", "conn", key, "clients", h.clients.Size())
}

func (h *Hub) Unregister(key string, c WSClient) {
	h.clients.Compute(key, func(old WSClient, loaded bool) (WSClient, xsync.ComputeOp) {
		if !loaded || old != c {
			return old, xsync.CancelOp
		}
		return nil, xsync.DeleteOp
	})
	h.logger.Debug("ws unregister", "conn", key, "clients", h.clients.Size())
}

func (h *Hub) Len() int {
	return h.clients.Size()
}

// CloseAll closes every registered connection.
func (h *Hub) CloseAll() {
	h.clients.Range(func(key string, c WSClient) bool {
		c.Close()
		return true
	})
	h.clients.Clear()
}
