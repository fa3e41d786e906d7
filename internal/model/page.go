package model

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/nao1215/spiderette/internal/parser"
	"github.com/nao1215/spiderette/internal/urlutil"
)

// htmlContentType is the media type prefix of pages whose links are followed.
const htmlContentType = "text/html"

// FetchResult is the raw outcome of fetching a URL.
type FetchResult struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Header contains the response headers.
	// Lookups through Header.Get are case-insensitive.
	Header http.Header

	// Body is the response body, possibly truncated by the transport.
	Body []byte
}

// Page represents a crawled URL.
// A Page is created once its fetch resolves and is only mutated afterwards
// by edge insertion, which is safe for concurrent use.
type Page struct {
	// URL is the URL the page was requested with.
	// The fragment is kept so redirects can carry it to their target.
	URL *url.URL

	// key is the canonical URL, the page's identity within a run.
	key string

	result *FetchResult

	linksOnce sync.Once
	links     []*url.URL

	// mu protects outgoing and incoming.
	mu       sync.Mutex
	outgoing []string
	incoming []string
}

// NewPage creates a Page for u from its fetch result.
// A nil result is treated as an empty response.
func NewPage(u *url.URL, result *FetchResult) *Page {
	if result == nil {
		result = &FetchResult{}
	}
	if result.Header == nil {
		result.Header = make(http.Header)
	}

	return &Page{
		URL:      u,
		key:      urlutil.Canonicalize(u),
		result:   result,
		outgoing: make([]string, 0),
		incoming: make([]string, 0),
	}
}

// Key returns the canonical URL identifying the page.
func (p *Page) Key() string {
	return p.key
}

// StatusCode returns the HTTP status code of the page.
func (p *Page) StatusCode() int {
	return p.result.StatusCode
}

// Header returns the first value of the named response header.
func (p *Page) Header(name string) string {
	return p.result.Header.Get(name)
}

// ContentType returns the Content-Type of the response.
// A response without one is assumed to be HTML.
func (p *Page) ContentType() string {
	ct := p.Header("Content-Type")
	if ct == "" {
		return htmlContentType
	}
	return ct
}

// IsHTML reports whether the page content type starts with text/html.
func (p *Page) IsHTML() bool {
	return strings.HasPrefix(strings.ToLower(p.ContentType()), htmlContentType)
}

// OutgoingLinks returns the crawlable links of the page.
// Every anchor href is resolved against the page URL; references that
// fail to resolve or are not http(s) are dropped. Non-HTML pages have no
// links. The body is parsed at most once.
func (p *Page) OutgoingLinks() []*url.URL {
	p.linksOnce.Do(func() {
		p.links = make([]*url.URL, 0)
		if !p.IsHTML() {
			return
		}

		hrefs, err := parser.ExtractHrefs(bytes.NewReader(p.result.Body))
		if err != nil {
			return
		}

		for _, href := range hrefs {
			link, ok := urlutil.Resolve(p.URL, href)
			if !ok || !urlutil.IsHTTPLike(link) {
				continue
			}
			p.links = append(p.links, link)
		}
	})

	// Callers get their own slice so they may reorder it freely.
	links := make([]*url.URL, len(p.links))
	copy(links, p.links)
	return links
}

// AddOutgoingPage records that p links to other.
// Edges are not deduplicated.
func (p *Page) AddOutgoingPage(other *Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outgoing = append(p.outgoing, other.Key())
}

// AddIncomingPage records that p is linked from other.
// Edges are not deduplicated.
func (p *Page) AddIncomingPage(other *Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.incoming = append(p.incoming, other.Key())
}

// Outgoing returns the canonical URLs p links to, in insertion order.
func (p *Page) Outgoing() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.outgoing))
	copy(out, p.outgoing)
	return out
}

// Incoming returns the canonical URLs linking to p, in insertion order.
func (p *Page) Incoming() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	in := make([]string, len(p.incoming))
	copy(in, p.incoming)
	return in
}

// Class returns the status class of the page.
func (p *Page) Class() StatusClass {
	return ClassOf(p.result.StatusCode)
}

// IsSuccess reports whether the status code is in 100-299.
func (p *Page) IsSuccess() bool {
	return p.Class() == StatusSuccess
}

// IsRedirect reports whether the status code is in 300-399.
func (p *Page) IsRedirect() bool {
	return p.Class() == StatusRedirect
}

// IsClientError reports whether the status code is in 400-499.
func (p *Page) IsClientError() bool {
	return p.Class() == StatusClientError
}

// IsServerError reports whether the status code is in 500-599.
func (p *Page) IsServerError() bool {
	return p.Class() == StatusServerError
}
