package vite

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewProxy forwards UI requests to a frontend dev server such as
// http://localhost:3000.
func NewProxy(devURL string) (http.Handler, error) {
	target, err := url.Parse(devURL)
	if err != nil {
		return nil, fmt.Errorf("parse dev url: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" || target.Host == "" {
		return nil, fmt.Errorf("dev url %q must be an absolute http(s) URL", devURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		// dev servers reject requests for hosts they do not know
		req.Host = target.Host
	}
	return proxy, nil
}
