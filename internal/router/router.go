package router

import (
	"net/http"

	"github.com/arko-chat/webuicall/components/assets"
	"github.com/arko-chat/webuicall/internal/handlers"
	"github.com/arko-chat/webuicall/internal/vite"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// DevURL proxies the UI to a frontend dev server instead of the
	// embedded assets. The bridge endpoints are always served locally.
	DevURL string
	// Quiet drops the request logger.
	Quiet bool
}

func New(h *handlers.Handler, opts Options) (*chi.Mux, error) {
	r := chi.NewRouter()

	if !opts.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)

	r.Get("/healthz", h.HandleHealth)
	r.Get("/webui", h.HandleWS)
	r.Get("/webui/token", h.HandleToken)

	dist := assets.DistFS()
	r.Get("/webui.js", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, dist, "webui.js")
	})

	if opts.DevURL != "" {
		proxy, err := vite.NewProxy(opts.DevURL)
		if err != nil {
			return nil, err
		}
		r.Handle("/*", proxy)
	} else {
		r.Handle("/*", assets.Handler(dist))
	}

	return r, nil
}
