package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/spiderette/internal/model"
	"github.com/nao1215/spiderette/internal/urlutil"
)

// fromColor renders the referrer suffix of progress lines.
var fromColor = color.New(color.FgHiBlack)

// visitedPath is the chain of pages from the seed to the current page.
// Extending a path allocates a new node, so sibling branches never observe
// each other's pages.
type visitedPath struct {
	key    string
	parent *visitedPath
}

// contains reports whether key is on the path.
func (p *visitedPath) contains(key string) bool {
	for node := p; node != nil; node = node.parent {
		if node.key == key {
			return true
		}
	}
	return false
}

// push returns the path extended by key.
func (p *visitedPath) push(key string) *visitedPath {
	return &visitedPath{key: key, parent: p}
}

// analyze classifies page and, when allowed, expands its outgoing links.
// from is the path of the referring page, empty for the seed.
// It returns false if page or any page below it is an HTTP error.
func (s *Session) analyze(ctx context.Context, page *model.Page, from string, path *visitedPath, loadChildren bool, depth int) bool {
	if path.contains(page.Key()) {
		return true
	}
	path = path.push(page.Key())

	switch {
	case page.IsRedirect():
		if !s.opts.IgnoreRedirect {
			s.progress(page, from)
		}
		return s.followRedirect(ctx, page, from, path, loadChildren, depth)
	case page.IsClientError():
		if !s.opts.IgnoreClient {
			s.progress(page, from)
		}
		return false
	case page.IsServerError():
		if !s.opts.IgnoreServer {
			s.progress(page, from)
		}
		return false
	}

	if s.opts.Verbose {
		s.progress(page, from)
	}

	if !loadChildren {
		return true
	}
	if s.opts.MaxDepth > 0 && depth >= s.opts.MaxDepth {
		return true
	}

	return s.expand(ctx, page, path, depth)
}

// followRedirect loads the Location target of page and analyzes it on the
// same path. A redirect that cannot be followed passes.
func (s *Session) followRedirect(ctx context.Context, page *model.Page, from string, path *visitedPath, loadChildren bool, depth int) bool {
	location := page.Header("Location")
	if location == "" {
		s.logger.Warn("redirect without location", "url", page.Key(), "status", page.StatusCode())
		return true
	}

	next, ok := urlutil.Resolve(page.URL, location)
	if !ok || !urlutil.IsHTTPLike(next) {
		s.logger.Warn("unusable redirect location", "url", page.Key(), "location", location)
		return true
	}
	next.Fragment = page.URL.Fragment

	target, err := s.cache.Load(ctx, next)
	if err != nil {
		s.logger.Warn("failed to follow redirect", "url", page.Key(), "location", next.String(), "error", err)
		return true
	}

	page.AddOutgoingPage(target)
	target.AddIncomingPage(page)

	return s.analyze(ctx, target, from, path, loadChildren, depth)
}

// expand follows every eligible outgoing link of page concurrently and
// reports whether all of them passed.
func (s *Session) expand(ctx context.Context, page *model.Page, path *visitedPath, depth int) bool {
	links := page.OutgoingLinks()
	results := make([]bool, len(links))
	from := referrerPath(page.URL)

	// Plain group: siblings are never cancelled, every child is awaited.
	var g errgroup.Group
	for i, link := range links {
		isInternal := urlutil.SameHost(link, page.URL)
		if !isInternal && s.opts.Internal {
			results[i] = true
			continue
		}

		g.Go(func() error {
			target, err := s.cache.Load(ctx, link)
			if err != nil {
				s.logSkipped(page, link, err)
				results[i] = true
				return nil
			}

			page.AddOutgoingPage(target)
			target.AddIncomingPage(page)

			results[i] = s.analyze(ctx, target, from, path, isInternal, depth+1)
			return nil
		})
	}
	_ = g.Wait() // children never return errors

	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}

// logSkipped records a link whose fetch failed. Non-HTML targets are
// expected on most sites and only logged at debug level.
func (s *Session) logSkipped(page *model.Page, link *url.URL, err error) {
	if errors.Is(err, ErrContentType) {
		s.logger.Debug("skipping non-html link", "from", page.Key(), "url", urlutil.Canonicalize(link), "error", err)
		return
	}
	s.logger.Warn("failed to load link", "from", page.Key(), "url", urlutil.Canonicalize(link), "error", err)
}

// progress writes the interim line for page.
func (s *Session) progress(page *model.Page, from string) {
	line := page.Log()
	if from != "" {
		line += " " + fromColor.Sprintf("(from %s)", from)
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, line) //nolint:errcheck // progress output is best effort
}

// referrerPath returns the path shown as the origin of child pages.
func referrerPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
