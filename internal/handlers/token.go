package handlers

import (
	"encoding/json"
	"net/http"
)

type tokenResponse struct {
	Token     string   `json:"token"`
	Functions []string `json:"functions"`
}

// HandleToken issues a call token. Browsers only let same-origin pages
// read the response, which is what keeps foreign pages off the bridge.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.tokens.Issue()
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(tokenResponse{
		Token:     tok,
		Functions: h.dispatcher.Names(),
	})
}
