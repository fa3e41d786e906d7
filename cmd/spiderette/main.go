// Package main provides the entry point for the spiderette CLI.
//
// spiderette crawls a website from a seed URL, follows every reachable
// link, and reports pages that answer with an HTTP error or a redirect.
//
// Usage:
//
//	spiderette https://example.com/
//	spiderette --internal --depth 3 https://example.com/docs/
//
// See --help for all available options.
package main

// main is the entry point for spiderette.
func main() {
	Execute()
}
