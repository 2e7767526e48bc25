package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/arko-chat/webuicall/internal/config"
	"github.com/arko-chat/webuicall/internal/handlers"
	"github.com/arko-chat/webuicall/internal/host"
	"github.com/arko-chat/webuicall/internal/router"
	"github.com/arko-chat/webuicall/internal/session"
	"github.com/arko-chat/webuicall/internal/ws"
)

// Server is the demo host: it serves the calculator UI and answers its
// bridge calls.
type Server struct {
	URL      string
	Registry *host.Registry
	Hub      *ws.Hub
	Tokens   *session.Tokens

	srv    *http.Server
	logger *slog.Logger
}

// Start listens on cfg.ListenAddr and serves in the background.
func Start(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	reg := host.NewRegistry(logger)
	host.RegisterCalculator(reg)

	hub := ws.NewHub(logger)
	tokens := session.NewTokens(cfg.TokenKeyBytes(), cfg.TokenTTL())
	h := handlers.New(reg, hub, tokens, logger)

	mux, err := router.New(h, router.Options{
		DevURL: cfg.DevURL,
		Quiet:  !logger.Handler().Enabled(context.Background(), slog.LevelDebug),
	})
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := &Server{
		URL:      fmt.Sprintf("http://%s", listener.Addr().String()),
		Registry: reg,
		Hub:      hub,
		Tokens:   tokens,
		srv:      &http.Server{Handler: mux},
		logger:   logger,
	}

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	}()

	logger.Info("server starting", "addr", s.URL, "functions", reg.Names())
	return s, nil
}

// Endpoint is the websocket URL native clients dial.
func (s *Server) Endpoint() string {
	return s.URL + "/webui"
}

func (s *Server) Stop(ctx context.Context) error {
	s.Hub.CloseAll()
	return s.srv.Shutdown(ctx)
}
