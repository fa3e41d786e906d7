// Package parser extracts hyperlinks from HTML documents.
package parser

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// anchorSelector matches every anchor that carries an href attribute,
// including empty ones.
const anchorSelector = "a[href]"

// ExtractHrefs returns the raw href value of every anchor in the document,
// in document order. Duplicates are preserved: two anchors pointing at the
// same target yield two entries. Malformed markup is repaired by the
// HTML5 parsing algorithm rather than rejected.
func ExtractHrefs(r io.Reader) ([]string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	hrefs := make([]string, 0)
	doc.Find(anchorSelector).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})

	return hrefs, nil
}
