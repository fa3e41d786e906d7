package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidSeed is returned when the seed URL cannot start a crawl.
var ErrInvalidSeed = errors.New("invalid seed URL: must be an absolute http or https URL")

// Resolve resolves ref against base.
// It returns false when ref cannot be parsed. Leading and trailing
// whitespace is ignored, as browsers do for href attributes.
func Resolve(base *url.URL, ref string) (*url.URL, bool) {
	if base == nil {
		return nil, false
	}

	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, false
	}

	return base.ResolveReference(u), true
}

// Canonicalize returns the identity key of u: scheme://host/path.
// The query string and fragment are dropped, and an empty path is the
// root, so http://h and http://h/ share one key.
func Canonicalize(u *url.URL) string {
	if u == nil {
		return ""
	}

	if u.Path == "" && u.RawPath == "" {
		return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
	}

	c := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   u.Path,
		// RawPath keeps escaped paths such as %2F stable across round trips.
		RawPath: u.RawPath,
	}

	return c.String()
}

// IsHTTPLike reports whether u is a web resource that can be crawled.
// mailto:, javascript:, tel: and friends are filtered out here.
func IsHTTPLike(u *url.URL) bool {
	if u == nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// SameHost reports whether a and b point at the same host (including port).
func SameHost(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Host == b.Host
}

// ParseSeed parses the URL a crawl starts from.
func ParseSeed(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.Join(ErrInvalidSeed, err)
	}

	if !u.IsAbs() || !IsHTTPLike(u) || u.Host == "" {
		return nil, ErrInvalidSeed
	}

	return u, nil
}
