// Package httpx wraps http.Client with the transport tuning and the outbound
// header profile shared by every upstream fetch.
package httpx

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Client is a small wrapper around http.Client with sane defaults.
// Redirects are followed (http.Client default).
type Client struct {
	HTTP    *http.Client
	Headers map[string]string
}

// New returns a client with the given per-call timeout and the default
// browser-like header profile.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout, Transport: transport},
		Headers: BrowserHeaders(),
	}
}

// BrowserHeaders is the header profile sent to scraped pages. The upstreams
// are ordinary market-data web pages, not APIs; a bare Go user agent gets a
// different (sometimes empty) page from some of them.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "fa-IR,fa;q=0.9,en;q=0.8",
		"Cache-Control":   "no-cache",
	}
}

// Do performs the request, filling in any profile header the request does not
// already set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req.WithContext(ctx))
}
