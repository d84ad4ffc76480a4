package extract

import "testing"

func TestExtractLastPrice_LabeledMatch(t *testing.T) {
	html := `<div class="row"><span>آخرین قیمت</span><b>۹۳۰,۰۰۰,۰۰۰</b></div>`
	n, ok := Heuristic{}.ExtractLastPrice(html)
	if !ok || n != 930000000 {
		t.Fatalf("got (%d, %v), want (930000000, true)", n, ok)
	}
}

func TestExtractLastPrice_LabeledBeatsFallback(t *testing.T) {
	// Both a labeled price and an earlier long digit run are present; the
	// labeled one must win.
	html := `id=1234567890 ... آخرین قیمت: 73,611 ریال`
	n, ok := Heuristic{}.ExtractLastPrice(html)
	if !ok || n != 73611 {
		t.Fatalf("got (%d, %v), want (73611, true)", n, ok)
	}
}

func TestExtractLastPrice_ZeroLabelFallsThrough(t *testing.T) {
	html := `آخرین قیمت ۰ ... حجم معاملات 930,000,000`
	n, ok := Heuristic{}.ExtractLastPrice(html)
	if !ok || n != 930000000 {
		t.Fatalf("got (%d, %v), want (930000000, true)", n, ok)
	}
}

func TestExtractLastPrice_FallbackRun(t *testing.T) {
	html := `<td>1,234,567</td>`
	n, ok := Heuristic{}.ExtractLastPrice(html)
	if !ok || n != 1234567 {
		t.Fatalf("got (%d, %v), want (1234567, true)", n, ok)
	}
}

func TestExtractLastPrice_PersianFallbackRun(t *testing.T) {
	html := `قیمت روز: ۷۳٬۶۱۱۰ ریال`
	n, ok := Heuristic{}.ExtractLastPrice(html)
	if !ok || n != 736110 {
		t.Fatalf("got (%d, %v), want (736110, true)", n, ok)
	}
}

func TestExtractLastPrice_Absent(t *testing.T) {
	for _, html := range []string{
		"",
		"<html><body>no prices here</body></html>",
		"date 2024/5/12, count 42",  // short runs only
		"12345",                     // five digits, below the run threshold
	} {
		if n, ok := (Heuristic{}).ExtractLastPrice(html); ok {
			t.Fatalf("ExtractLastPrice(%q) = (%d, true), want absent", html, n)
		}
	}
}

func TestLabeled(t *testing.T) {
	if run, ok := Labeled("آخرین قیمت: ۱۲۳"); !ok || run != "۱۲۳" {
		t.Fatalf("got (%q, %v)", run, ok)
	}
	if _, ok := Labeled("قیمت پایانی: 123"); ok {
		t.Fatal("unexpected label match")
	}
}
