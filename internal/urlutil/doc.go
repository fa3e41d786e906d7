// Package urlutil resolves and canonicalizes the URLs spiderette crawls.
//
// A page's identity is its canonical URL: scheme, host and path. Query
// strings and fragments are not part of the identity, so two references
// that differ only there are fetched once and reported as one page.
package urlutil
