// Package extract pulls a last-traded price out of unstructured upstream HTML.
//
// The pages this service scrapes have no stable selectors, so extraction is
// heuristic by nature. The Strategy interface keeps the resolver independent
// of the concrete heuristic so a structured API or a different selector can
// replace it later.
package extract

import (
	"regexp"

	"github.com/Morteza136404/iran-price-proxy/internal/farsi"
)

// Strategy locates the last traded price in a raw page body.
// The second return is false when no price could be located.
type Strategy interface {
	ExtractLastPrice(html string) (int64, bool)
}

var (
	// "آخرین قیمت" (last price), any non-digit filler, then a maximal run of
	// Persian/Latin digits and thousands/decimal separators.
	labeledRe = regexp.MustCompile(`آخرین قیمت[^0-9۰-۹]*([0-9۰-۹][0-9۰-۹,٬.]*)`)
	// First run of at least 6 digit/separator characters starting with a digit.
	runRe = regexp.MustCompile(`[0-9۰-۹][0-9۰-۹,٬.]{5,}`)
)

// Labeled returns the digit/separator run that follows the last-price label.
func Labeled(html string) (string, bool) {
	m := labeledRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FirstRun returns the first long digit/separator run anywhere in the page.
// Real prices in this domain are large numbers, so a run shorter than 6
// characters is ignored rather than risk picking up dates or counts.
func FirstRun(html string) (string, bool) {
	m := runRe.FindString(html)
	if m == "" {
		return "", false
	}
	return m, true
}

// Heuristic is the label-first extraction strategy. The labeled match is
// authoritative when it parses to a nonzero value; otherwise the long-run
// fallback is consulted. The fallback can match unrelated large numbers on
// the page; that risk is accepted for compatibility with the pages currently
// scraped.
type Heuristic struct{}

func (Heuristic) ExtractLastPrice(html string) (int64, bool) {
	if run, ok := Labeled(html); ok {
		if n, ok := farsi.ParseInt(run); ok && n != 0 {
			return n, true
		}
	}
	if run, ok := FirstRun(html); ok {
		return farsi.ParseInt(run)
	}
	return 0, false
}
