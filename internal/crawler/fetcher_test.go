package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nao1215/spiderette/internal/config"
)

// mustParse parses rawURL or fails the test.
func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()

	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", rawURL, err)
	}
	return u
}

// newTestFetcher creates an HTTPFetcher or fails the test.
func newTestFetcher(t *testing.T, opts ...FetcherOption) *HTTPFetcher {
	t.Helper()

	f, err := NewHTTPFetcher(opts...)
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return f
}

// TestHTTPFetcherFetch tests the fetch policy.
func TestHTTPFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("sends accept and user agent", func(t *testing.T) {
		t.Parallel()

		var gotAccept, gotUA, gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAccept = r.Header.Get("Accept")
			gotUA = r.Header.Get("User-Agent")
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		f := newTestFetcher(t, WithUserAgent("test-agent/1.0"))
		result, err := f.Fetch(context.Background(), mustParse(t, server.URL+"/page?x=1#top"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", result.StatusCode)
		}
		if gotAccept != "text/html" {
			t.Errorf("expected Accept 'text/html', got %q", gotAccept)
		}
		if gotUA != "test-agent/1.0" {
			t.Errorf("expected custom User-Agent, got %q", gotUA)
		}
		if gotQuery != "" {
			t.Errorf("expected canonical request without query, got %q", gotQuery)
		}
	})

	t.Run("does not follow redirects", func(t *testing.T) {
		t.Parallel()

		var targetHits int
		mux := http.NewServeMux()
		mux.HandleFunc("/from", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/to", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/to", func(w http.ResponseWriter, _ *http.Request) {
			targetHits++
			w.Header().Set("Content-Type", "text/html")
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		f := newTestFetcher(t)
		result, err := f.Fetch(context.Background(), mustParse(t, server.URL+"/from"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.StatusCode != http.StatusMovedPermanently {
			t.Errorf("expected 301, got %d", result.StatusCode)
		}
		if result.Header.Get("Location") != "/to" {
			t.Errorf("expected Location '/to', got %q", result.Header.Get("Location"))
		}
		if targetHits != 0 {
			t.Errorf("expected redirect target not to be requested, got %d hits", targetHits)
		}
	})

	t.Run("missing content type is accepted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header()["Content-Type"] = nil
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		f := newTestFetcher(t)
		result, err := f.Fetch(context.Background(), mustParse(t, server.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(result.Body) != "%PDF-1.4" {
			t.Errorf("unexpected body %q", result.Body)
		}
	})

	t.Run("rejects non-html content types", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name        string
			contentType string
			status      int
			wantErr     bool
		}{
			{"html", "text/html; charset=utf-8", http.StatusOK, false},
			{"upper case html", "TEXT/HTML", http.StatusOK, false},
			{"pdf", "application/pdf", http.StatusOK, true},
			{"plain text", "text/plain", http.StatusOK, true},
			{"json error page", "application/json", http.StatusNotFound, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Type", tt.contentType)
					w.WriteHeader(tt.status)
				}))
				defer server.Close()

				f := newTestFetcher(t)
				_, err := f.Fetch(context.Background(), mustParse(t, server.URL))

				if tt.wantErr {
					if !errors.Is(err, ErrContentType) {
						t.Errorf("expected ErrContentType, got %v", err)
					}
					return
				}
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			})
		}
	})

	t.Run("decodes gzip responses", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("plain"))
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			_, _ = gz.Write([]byte(`<a href="/zipped">z</a>`))
			_ = gz.Close()
		}))
		defer server.Close()

		f := newTestFetcher(t)
		result, err := f.Fetch(context.Background(), mustParse(t, server.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(result.Body) != `<a href="/zipped">z</a>` {
			t.Errorf("expected decoded body, got %q", result.Body)
		}
	})

	t.Run("truncates large bodies", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		f := newTestFetcher(t, WithMaxBodySize(10))
		result, err := f.Fetch(context.Background(), mustParse(t, server.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(result.Body))
		}
	})

	t.Run("transport failures wrap ErrTransport", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		f := newTestFetcher(t)
		_, err := f.Fetch(context.Background(), mustParse(t, addr))
		if !errors.Is(err, ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("cancelled context wraps ErrTransport", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := newTestFetcher(t)
		_, err := f.Fetch(ctx, mustParse(t, server.URL))
		if !errors.Is(err, ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

// TestHTTPFetcherHeaders tests global and per-host header injection.
func TestHTTPFetcherHeaders(t *testing.T) {
	t.Parallel()

	type seen struct {
		team, token string
	}
	results := make(chan seen, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results <- seen{team: r.Header.Get("X-Team"), token: r.Header.Get("X-Token")}
		w.Header().Set("Content-Type", "text/html")
	}))
	defer server.Close()

	u := mustParse(t, server.URL)

	t.Run("host headers override global headers", func(t *testing.T) {
		f := newTestFetcher(t,
			WithHeaders(map[string]string{"X-Team": "global", "X-Token": "global"}),
			WithHostHeaders(u.Hostname(), map[string]string{"X-Token": "secret"}),
		)
		if _, err := f.Fetch(context.Background(), u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := <-results
		if got.team != "global" {
			t.Errorf("expected global X-Team, got %q", got.team)
		}
		if got.token != "secret" {
			t.Errorf("expected host X-Token, got %q", got.token)
		}
	})

	t.Run("host headers keyed by host and port", func(t *testing.T) {
		f := newTestFetcher(t, WithHostHeaders(u.Host, map[string]string{"X-Token": "port"}))
		if _, err := f.Fetch(context.Background(), u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := <-results; got.token != "port" {
			t.Errorf("expected X-Token 'port', got %q", got.token)
		}
	})

	t.Run("other hosts do not receive host headers", func(t *testing.T) {
		f := newTestFetcher(t, WithHostHeaders("example.com", map[string]string{"X-Token": "leak"}))
		if _, err := f.Fetch(context.Background(), u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := <-results; got.token != "" {
			t.Errorf("expected no X-Token, got %q", got.token)
		}
	})
}

// TestNewHTTPFetcherProxy tests SOCKS5 proxy configuration.
func TestNewHTTPFetcherProxy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"valid", "127.0.0.1:9050", false},
		{"hostname", "localhost:1080", false},
		{"missing port", "127.0.0.1", true},
		{"missing host", ":9050", true},
		{"url", "socks5://127.0.0.1:9050", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewHTTPFetcher(WithProxy(tt.address))
			if tt.wantErr && !errors.Is(err, config.ErrInvalidProxyAddress) {
				t.Errorf("expected config.ErrInvalidProxyAddress, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
