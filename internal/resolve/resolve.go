// Package resolve orchestrates the sources: preferred-first ordering, bounded
// retries per source, and a fixed delay between failed attempts.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Morteza136404/iran-price-proxy/internal/source"
)

//go:generate mockgen -package=resolve_test -destination=mock_source_test.go github.com/Morteza136404/iran-price-proxy/internal/source Source

// ErrExhausted means every configured source failed every retry.
var ErrExhausted = errors.New("all sources exhausted")

// Result is a successful resolution.
type Result struct {
	Price  int64
	Source string
}

// Resolver scans sources sequentially. There is no fan-out: one request's
// resolution holds at most one upstream call in flight at a time, and
// requests share nothing mutable.
type Resolver struct {
	sources []source.Source
	retries int
	delay   time.Duration
	log     *logrus.Logger
}

// New builds a resolver. retries is the number of attempts per source
// (minimum 1); delay is the fixed wait between failed attempts on the same
// source. The delay does not grow across retries, so one resolution is
// bounded by sources x retries x (timeout + delay).
func New(sources []source.Source, retries int, delay time.Duration, log *logrus.Logger) *Resolver {
	if retries < 1 {
		retries = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{sources: sources, retries: retries, delay: delay, log: log}
}

// order returns the attempt order: the preferred source first, then the
// remaining sources in their configured order, deduplicated by name.
func (r *Resolver) order(prefer string) []source.Source {
	seen := make(map[string]struct{}, len(r.sources))
	out := make([]source.Source, 0, len(r.sources))
	add := func(s source.Source) {
		if _, dup := seen[s.Name()]; dup {
			return
		}
		seen[s.Name()] = struct{}{}
		out = append(out, s)
	}
	for _, s := range r.sources {
		if s.Name() == prefer {
			add(s)
		}
	}
	for _, s := range r.sources {
		add(s)
	}
	return out
}

// Resolve returns the first usable (strictly positive) price. Transport and
// extraction failures are logged and absorbed; the only errors a caller sees
// are context errors and ErrExhausted, which carries the requested preferred
// source for diagnostics.
func (r *Resolver) Resolve(ctx context.Context, symbol, prefer string) (Result, error) {
	for _, s := range r.order(prefer) {
		for attempt := 1; attempt <= r.retries; attempt++ {
			price, err := s.Fetch(ctx, symbol)
			if err == nil && price > 0 {
				return Result{Price: price, Source: s.Name()}, nil
			}
			fields := logrus.Fields{"source": s.Name(), "symbol": symbol, "attempt": attempt}
			if err != nil {
				fields["err"] = err.Error()
			} else {
				fields["price"] = price
			}
			r.log.WithFields(fields).Warn("fetch attempt yielded no usable price")
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			if attempt < r.retries && r.delay > 0 {
				if err := sleep(ctx, r.delay); err != nil {
					return Result{}, err
				}
			}
		}
	}
	return Result{}, fmt.Errorf("%w (preferred source %q)", ErrExhausted, prefer)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
