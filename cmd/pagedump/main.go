// Diagnostic for a single source page: fetches it and reports which
// extraction heuristic fires and what it parses to. Useful when an upstream
// changes its markup and the labeled match silently stops working.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Morteza136404/iran-price-proxy/internal/config"
	"github.com/Morteza136404/iran-price-proxy/internal/extract"
	"github.com/Morteza136404/iran-price-proxy/internal/farsi"
	"github.com/Morteza136404/iran-price-proxy/internal/httpx"
	"github.com/Morteza136404/iran-price-proxy/internal/source"
	"github.com/Morteza136404/iran-price-proxy/internal/symbol"
)

func main() {
	var (
		srcName   string
		rawSymbol string
		timeout   int
		cfgPath   string
		dumpBody  bool
	)
	flag.StringVar(&srcName, "source", "chartix", "configured source name")
	flag.StringVar(&rawSymbol, "symbol", "CD1G0B0001", "instrument symbol")
	flag.IntVar(&timeout, "timeout", 0, "timeout seconds (0 = config value)")
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.BoolVar(&dumpBody, "body", false, "dump the raw body to stdout")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.Upstream.TimeoutSec = timeout
	}

	var sc *config.Source
	for i := range cfg.Sources {
		if cfg.Sources[i].Name == srcName {
			sc = &cfg.Sources[i]
			break
		}
	}
	if sc == nil {
		log.Fatalf("unknown source %q", srcName)
	}

	sym := symbol.Normalize(rawSymbol)
	hc := httpx.New(time.Duration(cfg.Upstream.TimeoutSec) * time.Second)
	page := source.NewPage(source.PageConfig{
		Name:        sc.Name,
		URLTemplate: sc.URLTemplate,
		Headers:     httpx.BrowserHeaders(),
	}, hc, nil)

	url := page.URL(sym)
	fmt.Printf("GET %s\n", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	start := time.Now()
	resp, err := hc.Do(req.Context(), req)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read body: %v", err)
	}
	fmt.Printf("status: %d, bytes: %d, took: %s\n", resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	html := string(body)
	if run, ok := extract.Labeled(html); ok {
		n, parsed := farsi.ParseInt(run)
		fmt.Printf("labeled match: %q -> %d (parsed=%v)\n", run, n, parsed)
	} else {
		fmt.Println("labeled match: none")
	}
	if run, ok := extract.FirstRun(html); ok {
		n, parsed := farsi.ParseInt(run)
		fmt.Printf("fallback run:  %q -> %d (parsed=%v)\n", run, n, parsed)
	} else {
		fmt.Println("fallback run:  none")
	}
	if n, ok := (extract.Heuristic{}).ExtractLastPrice(html); ok {
		fmt.Printf("extracted last price: %d\n", n)
	} else {
		fmt.Println("extracted last price: none")
	}

	if dumpBody {
		_, _ = os.Stdout.Write(body)
	}
}
