package symbol

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"CD1G0B0001", "CD1G0B0001"},
		{"cd1g0b0001", "CD1G0B0001"},
		{"cd1gob0001", "CD1G0B0001"},
		{"CD1GOB0001", "CD1G0B0001"},
		{"  CD1SIB0001  ", "CD1SIB0001"},
		{"cd1sib0001", "CD1SIB0001"},
		{"CD1 G0B‌0001", "CD1G0B0001"},
		{"CD1G0B000۱", "CD1G0B0001"},
		{"xCD1GOB0001y", "XCD1G0B0001Y"},
		{"", ""},
		{"unknown", "UNKNOWN"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"cd1gob0001", "CD1GOB0001", " cd1 sib 0001 ", "CD1G0B000۱", "foo bar", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("CD1G0B0001")
	if !ok {
		t.Fatal("expected CD1G0B0001 in allowlist")
	}
	if e.Kind != KindGoldCertificate || e.Per != "coin" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if _, ok := Lookup("CD1SIB0001"); !ok {
		t.Fatal("expected CD1SIB0001 in allowlist")
	}
	if _, ok := Lookup("cd1g0b0001"); ok {
		t.Fatal("lookup must require the canonical form")
	}
	if _, ok := Lookup("BTCUSDT"); ok {
		t.Fatal("unexpected allowlist hit")
	}
}
