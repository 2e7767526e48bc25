package handlers

import (
	"log/slog"
	"net/http"

	"github.com/arko-chat/webuicall/internal/session"
	"github.com/arko-chat/webuicall/internal/ws"
)

type Handler struct {
	dispatcher ws.Dispatcher
	hub        *ws.Hub
	tokens     *session.Tokens
	logger     *slog.Logger
}

func New(
	dispatcher ws.Dispatcher,
	hub *ws.Hub,
	tokens *session.Tokens,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		hub:        hub,
		tokens:     tokens,
		logger:     logger,
	}
}

func (h *Handler) serverError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	h.logger.Error("handler error", "path", r.URL.Path, "err", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
