package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/nao1215/spiderette/internal/model"
)

// Options controls traversal and progress output.
// Options are fixed for the lifetime of a Session.
type Options struct {
	// Internal restricts expansion to links on the same host as the
	// linking page.
	Internal bool

	// Verbose reports successful pages as well.
	Verbose bool

	// IgnoreRedirect hides redirects from progress output.
	IgnoreRedirect bool

	// IgnoreClient hides 4xx pages from progress output.
	// They still fail the run.
	IgnoreClient bool

	// IgnoreServer hides 5xx pages from progress output.
	// They still fail the run.
	IgnoreServer bool

	// MaxDepth stops expansion after this many link hops from the seed.
	// Zero means unlimited.
	MaxDepth int
}

// Session holds the state of a single crawl run.
type Session struct {
	cache    *FetchCache
	fetcher  Fetcher
	parallel int
	opts     Options
	logger   *slog.Logger
	runID    string

	// outMu serializes progress lines written by sibling goroutines.
	outMu sync.Mutex
	out   io.Writer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOptions sets the traversal options.
func WithOptions(opts Options) SessionOption {
	return func(s *Session) {
		s.opts = opts
	}
}

// WithParallel sets the maximum number of concurrent fetches.
func WithParallel(n int) SessionOption {
	return func(s *Session) {
		s.parallel = n
	}
}

// WithProgressWriter sets where progress lines are written.
// The default is os.Stderr.
func WithProgressWriter(w io.Writer) SessionOption {
	return func(s *Session) {
		s.out = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a Session that loads pages with fetcher.
func NewSession(fetcher Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		fetcher:  fetcher,
		parallel: DefaultParallel,
		logger:   slog.Default(),
		out:      os.Stderr,
		runID:    uuid.NewString(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("run", s.runID)
	s.cache = NewFetchCache(s.fetcher, s.parallel, s.logger)

	return s
}

// Run crawls from seed and reports whether every reachable page passed.
// A seed that cannot be fetched is returned as an error; failures of
// any other page only count against the result when they are HTTP errors.
// If ctx ends before the traversal settles, the partial result is
// discarded and the context error is returned.
func (s *Session) Run(ctx context.Context, seed *url.URL) (bool, error) {
	s.logger.Debug("crawl started", "seed", seed.String(), "options", fmt.Sprintf("%+v", s.opts))

	page, err := s.cache.Load(ctx, seed)
	if err != nil {
		return false, fmt.Errorf("failed to load seed %s: %w", seed.String(), err)
	}

	ok := s.analyze(ctx, page, "", nil, true, 0)

	if err := ctx.Err(); err != nil {
		s.logger.Warn("crawl interrupted", "pages", s.cache.Len(), "error", err)
		return false, fmt.Errorf("crawl interrupted: %w", err)
	}

	s.logger.Debug("crawl finished", "pages", s.cache.Len(), "ok", ok)
	return ok, nil
}

// Pages returns every page resolved during the run, sorted by canonical URL.
func (s *Session) Pages() []*model.Page {
	return s.cache.Pages()
}
