package frame

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glidebrowser/glide/internal/shared/types"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(5*time.Second, "")
}

func TestFetchParsesAndSanitizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Docs</title></head><body>
			<script>alert(1)</script>
			<a href="/guide">Guide</a>
			<button onclick="go()">Run</button>
			<input id="q" placeholder="search">
		</body></html>`))
	}))
	defer srv.Close()

	fr, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	title, ok := fr.Title()
	require.True(t, ok)
	assert.Equal(t, "Docs", title)

	doc, err := fr.Document()
	require.NoError(t, err)

	// scripts stripped, relative links absolutized, handlers annotated
	assert.Equal(t, 0, doc.Find("script").Length())
	href, _ := doc.Find("a").Attr("href")
	assert.Equal(t, srv.URL+"/guide", href)
	_, hasHandler := doc.Find("button").Attr("onclick")
	assert.False(t, hasHandler)
	el, ok := AsElement(doc.Find("button"))
	require.True(t, ok)
	assert.Equal(t, RoleButton, el.Role())
	assert.Equal(t, 1, doc.Find("#q").Length(), "form controls survive sanitization")
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response body")
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := newTestFetcher().Fetch(context.Background(), "not a url")
	require.Error(t, err)
}

func TestFrameOptionsDenyBlocksDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Write([]byte(`<html><head><title>Bank</title></head><body><p>hi</p></body></html>`))
	}))
	defer srv.Close()

	fr, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err, "the page still loads and renders")

	assert.False(t, fr.SameOrigin())
	_, derr := fr.Document()
	assert.ErrorIs(t, derr, ErrAccessDenied)
	_, ok := fr.Title()
	assert.False(t, ok)
}

func TestCSPFrameAncestorsNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")
		w.Write([]byte(`<html><body><p>hi</p></body></html>`))
	}))
	defer srv.Close()

	fr, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, fr.SameOrigin())
}

func TestForeignOriginAgainstConfiguredShell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>hi</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "https://shell.example")
	fr, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, fr.SameOrigin(), "foreign origin relative to the shell")
	assert.ErrorIs(t, fr.Scroll(types.ScrollDown), ErrAccessDenied)
}

func TestHostLoadSignalsSink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Async</title></head><body>ok</body></html>`))
	}))
	defer srv.Close()

	sink := &captureSink{done: make(chan struct{}, 2)}
	host := newTestHost()
	host.SetSink(sink)

	host.Load(7, srv.URL)
	sink.wait(t)

	assert.Equal(t, int64(7), sink.tabID)
	assert.Equal(t, "Async", sink.title)
	assert.True(t, sink.titleOK)

	fr, ok := host.Frame(7)
	require.True(t, ok)
	assert.Equal(t, srv.URL, fr.URL())

	host.Discard(7)
	_, ok = host.Frame(7)
	assert.False(t, ok)
}

func TestHostLoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := &captureSink{done: make(chan struct{}, 2)}
	host := newTestHost()
	host.SetSink(sink)

	host.Load(3, srv.URL)
	sink.wait(t)

	assert.Equal(t, int64(3), sink.tabID)
	assert.Contains(t, sink.failure, "HTTP 502")
	_, ok := host.Frame(3)
	assert.False(t, ok)
}
