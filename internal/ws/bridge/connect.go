package bridgews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TokenInfo is the host's answer to GET /webui/token.
type TokenInfo struct {
	Token     string   `json:"token"`
	Functions []string `json:"functions"`
}

// FetchToken asks the host at baseURL for a call token.
func FetchToken(ctx context.Context, baseURL string) (TokenInfo, error) {
	var info TokenInfo

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/webui/token", nil)
	if err != nil {
		return info, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return info, fmt.Errorf("fetch token: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return info, fmt.Errorf("fetch token: unexpected status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return info, fmt.Errorf("decode token: %w", err)
	}
	return info, nil
}

// Connect fetches a token from the host at baseURL and dials its bridge
// endpoint.
func Connect(ctx context.Context, baseURL string, opts Options) (*Client, error) {
	info, err := FetchToken(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	opts.Token = info.Token
	return Dial(ctx, strings.TrimRight(baseURL, "/")+"/webui", opts)
}
