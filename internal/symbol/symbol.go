// Package symbol canonicalizes user-supplied instrument symbols and holds the
// static allowlist of quotable deposit certificates.
package symbol

import (
	"strings"

	"github.com/Morteza136404/iran-price-proxy/internal/farsi"
)

// Kind classifies an allowlisted instrument.
type Kind string

const (
	KindGoldCertificate   Kind = "gold-certificate"
	KindSilverCertificate Kind = "silver-certificate"
)

// Entry is the static metadata attached to an allowlisted symbol.
type Entry struct {
	Name        string // instrument name as shown on the exchange
	Kind        Kind
	Per         string // quantity the price refers to, e.g. "coin" or "unit"
	UnitDetails string
}

// aliases maps known malformed spellings to the canonical symbol. The
// lower-case keys predate the upper-casing step in Normalize and are kept for
// inputs checked before normalization (CLI tools, logs).
var aliases = map[string]string{
	"CD1GOB0001": "CD1G0B0001", // letter O for digit 0
	"cd1gob0001": "CD1G0B0001",
	"cd1g0b0001": "CD1G0B0001",
	"cd1sib0001": "CD1SIB0001",
}

var allowlist = map[string]Entry{
	"CD1G0B0001": {
		Name:        "گواهی سپرده شمش طلا",
		Kind:        KindGoldCertificate,
		Per:         "coin",
		UnitDetails: "سکه امامی",
	},
	"CD1SIB0001": {
		Name:        "گواهی سپرده نقره ۱ گرمی",
		Kind:        KindSilverCertificate,
		Per:         "unit",
		UnitDetails: "گواهی نقره ۱ گرم",
	},
}

// Normalize canonicalizes a raw symbol: trims whitespace, translates Persian
// digits, strips spaces and zero-width non-joiners, upper-cases, then applies
// the alias table. Unresolvable input is returned as-is; it simply will not
// pass Lookup. Normalize never fails and is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = farsi.Digits(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "‌", "")
	s = strings.ToUpper(s)
	if canon, ok := aliases[s]; ok {
		return canon
	}
	// O/0 confusion shows up embedded in longer strings too, not only as an
	// exact alias hit.
	return strings.ReplaceAll(s, "CD1GOB0001", "CD1G0B0001")
}

// Lookup returns the allowlist entry for a canonical symbol.
func Lookup(sym string) (Entry, bool) {
	e, ok := allowlist[sym]
	return e, ok
}
