// Package report groups crawled pages by referrer and renders the result.
//
// Build turns the resolved pages of a crawl into a Report. Pages that share
// the same set of referring pages are grouped together, so a broken link
// that appears in a site-wide navigation bar is listed once under all the
// pages carrying it.
//
// Writers render a Report in different formats:
//   - SimpleWriter: terminal text, one line per page (default)
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a pie chart
//
// WriteHeader and WriteSummary produce the run header and the aggregate
// statistics block that frame the report on standard error.
package report
