package crawler

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/spiderette/internal/config"
	"github.com/nao1215/spiderette/internal/model"
	"github.com/nao1215/spiderette/internal/urlutil"
)

// Fetch policy defaults.
const (
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits how much of a response body is kept.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent identifies spiderette in HTTP requests.
	DefaultUserAgent = "spiderette (+https://github.com/nao1215/spiderette)"
)

// Fetcher retrieves a single URL.
// Implementations must not follow redirects.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*model.FetchResult, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, u *url.URL) (*model.FetchResult, error)

// Fetch calls f(ctx, u).
func (f FetcherFunc) Fetch(ctx context.Context, u *url.URL) (*model.FetchResult, error) {
	return f(ctx, u)
}

// HTTPFetcher fetches pages over HTTP.
// Redirects are returned as-is so the traversal can record them.
type HTTPFetcher struct {
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize limits the response body size to prevent memory exhaustion.
	maxBodySize int64

	// timeout is the per-request timeout.
	timeout time.Duration

	// proxyAddress is an optional SOCKS5 proxy in host:port format.
	proxyAddress string

	// headers are sent with every request.
	headers map[string]string

	// hostHeaders are sent to a single host and override headers.
	hostHeaders map[string]map[string]string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
// Values below one keep the default.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProxy routes every connection through the SOCKS5 proxy at address.
func WithProxy(address string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.proxyAddress = address
	}
}

// WithHeaders sets headers sent with every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithHostHeaders sets headers sent only to the given host.
// The map is keyed by host, with or without port.
func WithHostHeaders(host string, headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		if f.hostHeaders == nil {
			f.hostHeaders = make(map[string]map[string]string)
		}
		f.hostHeaders[strings.ToLower(host)] = headers
	}
}

// NewHTTPFetcher creates an HTTPFetcher.
// It fails only when the proxy configuration is unusable.
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	}
	transport = transport.Clone()

	if f.proxyAddress != "" {
		dialContext, err := socks5DialContext(f.proxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dialContext
	}

	var rt http.RoundTripper = transport
	if len(f.headers) > 0 || len(f.hostHeaders) > 0 {
		rt = &headerInjectingTransport{
			base:        transport,
			headers:     f.headers,
			hostHeaders: f.hostHeaders,
		}
	}

	f.client = &http.Client{
		Transport: rt,
		Timeout:   f.timeout,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f, nil
}

// socks5DialContext returns a dial function that connects through the
// SOCKS5 proxy at address.
func socks5DialContext(address string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidProxyAddress, address)
	}

	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}

	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(network, addr)
	}, nil
}

// Fetch requests the canonical form of u.
// A response whose Content-Type is present and does not start with
// text/html fails with ErrContentType, whatever its status.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) (*model.FetchResult, error) {
	target := urlutil.Canonicalize(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request for %s: %w", ErrTransport, target, err)
	}

	req.Header.Set("Accept", "text/html")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("%w: %s returned %q", ErrContentType, target, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body of %s: %w", ErrTransport, target, err)
	}

	return &model.FetchResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// headerInjectingTransport wraps an http.RoundTripper to inject custom
// headers into every request.
type headerInjectingTransport struct {
	base        http.RoundTripper
	headers     map[string]string
	hostHeaders map[string]map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	for key, value := range t.hostHeadersFor(clone.URL) {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}

// hostHeadersFor looks up per-host headers by host:port first, then by
// hostname alone.
func (t *headerInjectingTransport) hostHeadersFor(u *url.URL) map[string]string {
	if headers, ok := t.hostHeaders[strings.ToLower(u.Host)]; ok {
		return headers
	}
	return t.hostHeaders[strings.ToLower(u.Hostname())]
}
