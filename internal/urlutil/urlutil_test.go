package urlutil

import (
	"errors"
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "query and fragment are stripped",
			raw:  "http://a.test/x?y=1#z",
			want: "http://a.test/x",
		},
		{
			name: "port is kept",
			raw:  "http://a.test:8080/about",
			want: "http://a.test:8080/about",
		},
		{
			name: "empty path is the root",
			raw:  "https://a.test",
			want: "https://a.test/",
		},
		{
			name: "empty path with query is the root",
			raw:  "https://a.test?lang=en",
			want: "https://a.test/",
		},
		{
			name: "root path is kept",
			raw:  "https://a.test/",
			want: "https://a.test/",
		},
		{
			name: "escaped path is preserved",
			raw:  "http://a.test/a%2Fb",
			want: "http://a.test/a%2Fb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Canonicalize(mustParse(t, tt.raw))
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}

	t.Run("nil URL", func(t *testing.T) {
		t.Parallel()
		if got := Canonicalize(nil); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "http://a.test/docs/index.html?q=1")

	tests := []struct {
		name   string
		ref    string
		want   string
		wantOK bool
	}{
		{name: "relative path", ref: "guide.html", want: "http://a.test/docs/guide.html", wantOK: true},
		{name: "root relative", ref: "/about", want: "http://a.test/about", wantOK: true},
		{name: "absolute", ref: "https://b.test/x", want: "https://b.test/x", wantOK: true},
		{name: "protocol relative", ref: "//c.test/y", want: "http://c.test/y", wantOK: true},
		{name: "fragment only", ref: "#top", want: "http://a.test/docs/index.html?q=1#top", wantOK: true},
		{name: "surrounding whitespace", ref: "  /about  ", want: "http://a.test/about", wantOK: true},
		{name: "mailto", ref: "mailto:me@a.test", want: "mailto:me@a.test", wantOK: true},
		{name: "unparseable", ref: "http://[::1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Resolve(base, tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.ref, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.String() != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got.String(), tt.want)
			}
		})
	}

	t.Run("nil base", func(t *testing.T) {
		t.Parallel()
		if _, ok := Resolve(nil, "/x"); ok {
			t.Error("expected resolution against nil base to fail")
		}
	})
}

func TestIsHTTPLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"http://a.test/", true},
		{"https://a.test/", true},
		{"HTTPS://a.test/", true},
		{"mailto:me@a.test", false},
		{"javascript:void(0)", false},
		{"ftp://a.test/file", false},
		{"tel:+123", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			if got := IsHTTPLike(mustParse(t, tt.raw)); got != tt.want {
				t.Errorf("IsHTTPLike(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}

	if IsHTTPLike(nil) {
		t.Error("nil URL must not be http-like")
	}
}

func TestSameHost(t *testing.T) {
	t.Parallel()

	a := mustParse(t, "http://a.test/x")
	if !SameHost(a, mustParse(t, "https://a.test/y")) {
		t.Error("expected same host regardless of scheme and path")
	}
	if SameHost(a, mustParse(t, "http://a.test:8080/x")) {
		t.Error("expected different ports to be different hosts")
	}
	if SameHost(a, nil) {
		t.Error("expected nil to never match")
	}
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	t.Run("valid seed", func(t *testing.T) {
		t.Parallel()

		u, err := ParseSeed(" https://a.test/start ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Host != "a.test" || u.Path != "/start" {
			t.Errorf("unexpected seed: %v", u)
		}
	})

	invalid := []string{"", "a.test/start", "/relative", "ftp://a.test/", "http://"}
	for _, raw := range invalid {
		t.Run("rejects "+raw, func(t *testing.T) {
			t.Parallel()

			_, err := ParseSeed(raw)
			if !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("expected ErrInvalidSeed for %q, got %v", raw, err)
			}
		})
	}
}
