// Package crawler walks a site from a seed URL and builds its page graph.
//
// # Components
//
//   - HTTPFetcher: performs a single GET with the crawl's fetch policy
//     (no redirect following, HTML only, optional SOCKS5 proxy)
//   - FetchCache: memoizes fetches by canonical URL so every page is
//     requested at most once per run, and bounds fetch concurrency
//   - Session: drives the recursive traversal, wires incoming and outgoing
//     edges, and computes the overall pass/fail result
//
// # Traversal
//
// Every outgoing link of a page is followed in its own goroutine and the
// results are joined before the parent returns. Each branch carries its own
// chain of visited pages, so a page reachable through several paths is
// analyzed on each of them while the network sees a single request.
// External links are fetched but never expanded.
//
// # Usage
//
//	fetcher, err := crawler.NewHTTPFetcher(crawler.WithTimeout(10 * time.Second))
//	if err != nil {
//		return err
//	}
//	session := crawler.NewSession(fetcher, crawler.WithOptions(crawler.Options{Internal: true}))
//	ok, err := session.Run(ctx, seed)
package crawler
