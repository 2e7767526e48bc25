package handlers

import (
	"net/http"
	"net/url"

	"github.com/arko-chat/webuicall/internal/ws"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin admits native clients, which send no Origin, and pages
// served by this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	connID, err := h.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Warn("ws rejected", "remote", r.RemoteAddr, "err", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}

	client := ws.NewBaseClient(conn)
	h.hub.Register(connID, client)
	defer h.hub.Unregister(connID, client)

	ws.Serve(r.Context(), client, h.dispatcher, h.logger)
}
