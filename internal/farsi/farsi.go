// Package farsi converts Persian-script numerals and free-form numeric text
// into plain integers.
package farsi

import (
	"strconv"
	"strings"
)

// Digits translates every Persian digit (۰-۹) to its Latin equivalent,
// rune by rune, leaving all other characters untouched.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '۰' && r <= '۹' {
			b.WriteRune('0' + (r - '۰'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseInt parses a free-form numeric string that may mix Persian and Latin
// digits with thousands separators, decimal points or currency marks. Every
// rune that is not an ASCII digit after translation is stripped. The second
// return is false when the input is empty or contains no digits at all.
// A value of "0" parses to integer 0; whether that is usable is the caller's
// call.
func ParseInt(s string) (int64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	s = Digits(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
