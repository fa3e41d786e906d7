package crawler

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/nao1215/spiderette/internal/model"
	"github.com/nao1215/spiderette/internal/urlutil"
)

// DefaultParallel is the default number of concurrent fetches.
const DefaultParallel = 16

// fetchResult is the memoized outcome of a fetch.
type fetchResult struct {
	page *model.Page
	err  error
}

// FetchCache memoizes fetches by canonical URL.
// Concurrent loads of the same canonical URL share a single request and
// observe the identical *model.Page or error.
type FetchCache struct {
	fetcher Fetcher
	logger  *slog.Logger

	// sem bounds the number of requests on the wire. It is held only
	// around the network call, never while callers wait on a flight.
	sem *semaphore.Weighted

	// flights joins callers of an in-flight fetch; results keeps the
	// outcome once the flight lands so later callers never fetch again.
	flights singleflight.Group

	mu      sync.Mutex
	results map[string]fetchResult
}

// NewFetchCache creates a FetchCache performing at most parallel
// concurrent fetches. Values below one use DefaultParallel.
func NewFetchCache(fetcher Fetcher, parallel int, logger *slog.Logger) *FetchCache {
	if parallel < 1 {
		parallel = DefaultParallel
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FetchCache{
		fetcher: fetcher,
		logger:  logger,
		sem:     semaphore.NewWeighted(int64(parallel)),
		results: make(map[string]fetchResult),
	}
}

// Load returns the page for u, fetching it on first use.
// The first caller for a canonical URL performs the fetch; every other
// caller waits for it to resolve.
func (c *FetchCache) Load(ctx context.Context, u *url.URL) (*model.Page, error) {
	key := urlutil.Canonicalize(u)

	if r, ok := c.lookup(key); ok {
		return r.page, r.err
	}

	v, _, _ := c.flights.Do(key, func() (any, error) {
		// A flight for key may have landed between lookup and Do.
		if r, ok := c.lookup(key); ok {
			return r, nil
		}

		r := c.fetch(ctx, u)

		c.mu.Lock()
		c.results[key] = r
		c.mu.Unlock()
		return r, nil
	})

	r := v.(fetchResult) //nolint:forcetypeassert // the flight function only returns fetchResult
	return r.page, r.err
}

func (c *FetchCache) lookup(key string) (fetchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	return r, ok
}

// fetch performs the network request for u.
func (c *FetchCache) fetch(ctx context.Context, u *url.URL) fetchResult {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fetchResult{err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	result, err := c.fetcher.Fetch(ctx, u)
	c.sem.Release(1)

	if err != nil {
		c.logger.Debug("fetch failed", "url", urlutil.Canonicalize(u), "error", err)
		return fetchResult{err: err}
	}

	page := model.NewPage(u, result)
	c.logger.Debug("fetched", "url", page.Key(), "status", page.StatusCode())
	return fetchResult{page: page}
}

// Pages returns the resolved pages sorted by canonical URL.
// Failed fetches are omitted. Pages is meant to be called once the
// traversal has settled; fetches still in flight are not included.
func (c *FetchCache) Pages() []*model.Page {
	c.mu.Lock()
	pages := make([]*model.Page, 0, len(c.results))
	for _, r := range c.results {
		if r.err == nil && r.page != nil {
			pages = append(pages, r.page)
		}
	}
	c.mu.Unlock()

	slices.SortFunc(pages, func(a, b *model.Page) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	return pages
}

// Len returns the number of distinct canonical URLs fetched so far,
// failures included.
func (c *FetchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
