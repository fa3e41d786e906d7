// Package model defines the page graph spiderette builds while crawling.
//
// This package contains the following main types:
//   - FetchResult: the status, headers and body returned by the transport
//   - Page: one crawled URL with its fetch result and link edges
//   - StatusClass: the HTTP outcome category a page falls into
//
// Pages refer to each other by canonical URL, not by pointer. Edges are
// keys into the session's page registry, so cycles in the link graph
// never make one page own another.
package model
