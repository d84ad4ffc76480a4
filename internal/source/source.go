// Package source defines the upstream price sources.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Morteza136404/iran-price-proxy/internal/extract"
	"github.com/Morteza136404/iran-price-proxy/internal/httpx"
)

// Source yields the last traded price for one symbol from one upstream.
// A source never reports partial detail about why it failed; every transport
// or extraction problem comes back as an error and the resolver absorbs it.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (int64, error)
}

// pages can be heavy; anything past this cannot plausibly hold the quote table
const maxBodyBytes = 4 << 20

// PageConfig parameterizes a scraped web page source.
type PageConfig struct {
	Name        string
	URLTemplate string // %s is replaced with the canonical symbol
	Headers     map[string]string
}

// Page fetches an unstructured market page and runs an extraction strategy
// over the body. All configured sources are instances of this one type; they
// differ only in data.
type Page struct {
	cfg      PageConfig
	client   *httpx.Client
	strategy extract.Strategy
}

func NewPage(cfg PageConfig, hc *httpx.Client, st extract.Strategy) *Page {
	if st == nil {
		st = extract.Heuristic{}
	}
	return &Page{cfg: cfg, client: hc, strategy: st}
}

func (p *Page) Name() string { return p.cfg.Name }

// URL returns the page address for a symbol.
func (p *Page) URL(sym string) string {
	return fmt.Sprintf(p.cfg.URLTemplate, url.PathEscape(sym))
}

func (p *Page) Fetch(ctx context.Context, symbol string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL(symbol), nil)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", p.cfg.Name, err)
	}
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}
	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.cfg.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2<<10))
		return 0, fmt.Errorf("%s: status %d", p.cfg.Name, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, fmt.Errorf("%s: read body: %w", p.cfg.Name, err)
	}
	price, ok := p.strategy.ExtractLastPrice(string(body))
	if !ok {
		return 0, fmt.Errorf("%s: no price found in page", p.cfg.Name)
	}
	return price, nil
}
