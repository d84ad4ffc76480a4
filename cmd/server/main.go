package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Morteza136404/iran-price-proxy/internal/config"
	"github.com/Morteza136404/iran-price-proxy/internal/httpx"
	"github.com/Morteza136404/iran-price-proxy/internal/resolve"
	"github.com/Morteza136404/iran-price-proxy/internal/source"
	"github.com/Morteza136404/iran-price-proxy/internal/source/ratelimit"
	"github.com/Morteza136404/iran-price-proxy/internal/symbol"
)

// priceResolver is what the HTTP layer needs from the resolution pipeline.
type priceResolver interface {
	Resolve(ctx context.Context, sym, prefer string) (resolve.Result, error)
}

type priceResponse struct {
	Symbol      string    `json:"symbol"`
	LastPrice   int64     `json:"lastPrice"`
	Currency    string    `json:"currency"`
	Per         string    `json:"per"`
	UnitDetails string    `json:"unitDetails"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type healthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	timeout := time.Duration(cfg.Upstream.TimeoutSec) * time.Second
	delay := time.Duration(cfg.Upstream.RetryDelayMs) * time.Millisecond
	sources := buildSources(cfg.Sources, httpx.New(timeout))
	if len(sources) == 0 {
		log.Fatal("no sources enabled")
	}
	resolver := resolve.New(sources, cfg.Upstream.Retries, delay, log)

	// Worst case for one resolution is every source exhausting its retries.
	budget := time.Duration(len(sources)*cfg.Upstream.Retries)*(timeout+delay) + 2*time.Second

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newHandler(resolver, cfg.Server.APIKey, sources[0].Name(), budget),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      budget + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("server stopped")
}

// buildSources assembles the enabled sources in their configured order,
// wrapping each with its rate limit when one is set.
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

func newHandler(res priceResolver, apiKey, defaultPrefer string, budget time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/v1/price", func(w http.ResponseWriter, r *http.Request) {
		handlePrice(w, r, res, defaultPrefer, budget)
	})
	return withJSONHeaders(recoverPanic(requireAPIKey(apiKey, mux)))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Time: time.Now().UTC()})
}

func handlePrice(w http.ResponseWriter, r *http.Request, res priceResolver, defaultPrefer string, budget time.Duration) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sym := symbol.Normalize(r.URL.Query().Get("symbol"))
	entry, ok := symbol.Lookup(sym)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Unknown symbol (allowlisted symbols only)")
		return
	}
	prefer := r.URL.Query().Get("prefer")
	if prefer == "" {
		prefer = defaultPrefer
	}

	ctx := r.Context()
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}
	result, err := res.Resolve(ctx, sym, prefer)
	if err != nil {
		writeDetail(w, http.StatusBadGateway, fmt.Sprintf("Could not fetch last price from %s/fallbacks", prefer))
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{
		Symbol:      sym,
		LastPrice:   result.Price,
		Currency:    "IRR",
		Per:         entry.Per,
		UnitDetails: entry.UnitDetails,
		Source:      result.Source,
		FetchedAt:   time.Now().UTC(),
	})
}

// requireAPIKey guards every /v1 path. /health stays open.
func requireAPIKey(key string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1") {
			got := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeDetail(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// recoverPanic keeps a handler panic from leaking a stack trace to callers.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				writeDetail(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeDetail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
