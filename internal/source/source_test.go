package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Morteza136404/iran-price-proxy/internal/httpx"
	"github.com/Morteza136404/iran-price-proxy/internal/source"
)

func newPage(t *testing.T, ts *httptest.Server, timeout time.Duration) *source.Page {
	t.Helper()
	return source.NewPage(source.PageConfig{
		Name:        "chartix",
		URLTemplate: ts.URL + "/symbol/%s",
		Headers:     httpx.BrowserHeaders(),
	}, httpx.New(timeout), nil)
}

func TestPage_Fetch_OK(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html>آخرین قیمت <b>۹۳۰,۰۰۰,۰۰۰</b></html>`))
	}))
	defer ts.Close()

	p := newPage(t, ts, 5*time.Second)
	price, err := p.Fetch(context.Background(), "CD1G0B0001")
	require.NoError(t, err)
	require.Equal(t, int64(930000000), price)
	require.Equal(t, "/symbol/CD1G0B0001", gotPath)
	require.Contains(t, gotUA, "Mozilla/5.0")
}

func TestPage_Fetch_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	p := newPage(t, ts, 5*time.Second)
	_, err := p.Fetch(context.Background(), "CD1G0B0001")
	require.Error(t, err)
}

func TestPage_Fetch_NoPriceInBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer ts.Close()

	p := newPage(t, ts, 5*time.Second)
	_, err := p.Fetch(context.Background(), "CD1G0B0001")
	require.Error(t, err)
}

func TestPage_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	p := newPage(t, ts, 50*time.Millisecond)
	_, err := p.Fetch(context.Background(), "CD1G0B0001")
	require.Error(t, err)
}

func TestPage_Fetch_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	p := newPage(t, ts, time.Second)
	_, err := p.Fetch(context.Background(), "CD1G0B0001")
	require.Error(t, err)
}
