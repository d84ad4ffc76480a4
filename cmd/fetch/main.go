// One-shot resolution from the command line, for debugging sources without
// standing up the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Morteza136404/iran-price-proxy/internal/config"
	"github.com/Morteza136404/iran-price-proxy/internal/httpx"
	"github.com/Morteza136404/iran-price-proxy/internal/resolve"
	"github.com/Morteza136404/iran-price-proxy/internal/source"
	"github.com/Morteza136404/iran-price-proxy/internal/source/ratelimit"
	"github.com/Morteza136404/iran-price-proxy/internal/symbol"
)

func main() {
	var (
		rawSymbol string
		prefer    string
		timeout   int
		retries   int
		delayMs   int
		cfgPath   string
	)
	flag.StringVar(&rawSymbol, "symbol", "CD1G0B0001", "instrument symbol (raw; will be normalized)")
	flag.StringVar(&prefer, "prefer", "", "preferred source name (default: first configured)")
	flag.IntVar(&timeout, "timeout", 0, "per-call timeout seconds (0 = config value)")
	flag.IntVar(&retries, "retries", 0, "attempts per source (0 = config value)")
	flag.IntVar(&delayMs, "retry-delay-ms", -1, "delay between retries in ms (-1 = config value)")
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.Upstream.TimeoutSec = timeout
	}
	if retries > 0 {
		cfg.Upstream.Retries = retries
	}
	if delayMs >= 0 {
		cfg.Upstream.RetryDelayMs = delayMs
	}

	sym := symbol.Normalize(rawSymbol)
	entry, ok := symbol.Lookup(sym)
	if !ok {
		log.Fatalf("symbol %q (normalized %q) is not allowlisted", rawSymbol, sym)
	}

	hc := httpx.New(time.Duration(cfg.Upstream.TimeoutSec) * time.Second)
	sources := buildSources(cfg.Sources, hc)
	if len(sources) == 0 {
		log.Fatal("no sources enabled")
	}
	if prefer == "" {
		prefer = sources[0].Name()
	}

	resolver := resolve.New(sources, cfg.Upstream.Retries,
		time.Duration(cfg.Upstream.RetryDelayMs)*time.Millisecond, log)

	res, err := resolver.Resolve(context.Background(), sym, prefer)
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{
		"symbol":      sym,
		"lastPrice":   res.Price,
		"currency":    "IRR",
		"per":         entry.Per,
		"unitDetails": entry.UnitDetails,
		"source":      res.Source,
		"fetchedAt":   time.Now().UTC(),
	})
}

func buildSources(cfgs []config.Source, hc *httpx.Client) []source.Source {
	out := make([]source.Source, 0, len(cfgs))
	for _, sc := range cfgs {
		if !sc.Enabled || sc.URLTemplate == "" {
			continue
		}
		var s source.Source = source.NewPage(source.PageConfig{
			Name:        sc.Name,
			URLTemplate: sc.URLTemplate,
			Headers:     httpx.BrowserHeaders(),
		}, hc, nil)
		if sc.MaxRequestsPerMinute > 0 {
			s = &ratelimit.Limited{S: s, RL: ratelimit.PerMinute(sc.MaxRequestsPerMinute, sc.Burst)}
		} else if sc.MinRequestIntervalSec > 0 {
			s = &ratelimit.MinInterval{S: s, Interval: time.Duration(sc.MinRequestIntervalSec) * time.Second}
		}
		out = append(out, s)
	}
	return out
}
