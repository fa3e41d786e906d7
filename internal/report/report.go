package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nao1215/spiderette/internal/model"
)

// Filter selects which pages appear in report groups.
// Statistics always cover every page.
type Filter struct {
	// Verbose includes successful pages.
	Verbose bool

	// IgnoreRedirect excludes redirects.
	IgnoreRedirect bool

	// IgnoreClient excludes 4xx pages.
	IgnoreClient bool

	// IgnoreServer excludes 5xx pages.
	IgnoreServer bool
}

// excludes reports whether page is hidden from the groups.
func (f Filter) excludes(page *model.Page) bool {
	switch page.Class() {
	case model.StatusRedirect:
		return f.IgnoreRedirect
	case model.StatusClientError:
		return f.IgnoreClient
	case model.StatusServerError:
		return f.IgnoreServer
	case model.StatusSuccess:
		return !f.Verbose
	default:
		return false
	}
}

// Group is a set of pages linked from exactly the same pages.
type Group struct {
	// Signature is the sorted, deduplicated list of referrer URLs.
	Signature []string

	// Referrers are the pages in Signature, in the same order.
	Referrers []*model.Page

	// Pages are the members of the group, sorted by URL.
	Pages []*model.Page
}

// Stats summarizes the outcome of every resolved page.
type Stats struct {
	Total        int `json:"total"`
	Success      int `json:"success"`
	Redirects    int `json:"redirects"`
	ClientErrors int `json:"client_errors"`
	ServerErrors int `json:"server_errors"`
}

// SuccessRate returns the share of successful pages in percent.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success) * 100 / float64(s.Total)
}

// Errors returns the number of 4xx and 5xx pages.
func (s Stats) Errors() int {
	return s.ClientErrors + s.ServerErrors
}

// Report is the grouped outcome of a crawl.
type Report struct {
	// Seed is the URL the crawl started from.
	Seed string

	// Passed is the overall traversal result.
	Passed bool

	Groups []Group
	Stats  Stats
}

// Build groups pages by referrer signature.
// Groups are ordered by descending number of referrers, then by the
// referrer URLs, so the output is stable across runs.
func Build(seed string, pages []*model.Page, f Filter) *Report {
	byKey := make(map[string]*model.Page, len(pages))
	for _, page := range pages {
		byKey[page.Key()] = page
	}

	r := &Report{
		Seed:   seed,
		Groups: make([]Group, 0),
		Stats:  collectStats(pages),
	}

	index := make(map[string]int)
	for _, page := range pages {
		if f.excludes(page) {
			continue
		}

		signature := referrerSignature(page)
		id := strings.Join(signature, "\n")

		i, ok := index[id]
		if !ok {
			i = len(r.Groups)
			index[id] = i
			r.Groups = append(r.Groups, Group{
				Signature: signature,
				Referrers: lookup(byKey, signature),
				Pages:     make([]*model.Page, 0, 1),
			})
		}
		r.Groups[i].Pages = append(r.Groups[i].Pages, page)
	}

	for i := range r.Groups {
		slices.SortFunc(r.Groups[i].Pages, func(a, b *model.Page) int {
			return cmp.Compare(a.Key(), b.Key())
		})
	}
	slices.SortFunc(r.Groups, func(a, b Group) int {
		if c := cmp.Compare(len(b.Signature), len(a.Signature)); c != 0 {
			return c
		}
		return slices.Compare(a.Signature, b.Signature)
	})

	return r
}

// referrerSignature returns the incoming edges of page, deduplicated and
// sorted.
func referrerSignature(page *model.Page) []string {
	signature := page.Incoming()
	slices.Sort(signature)
	return slices.Compact(signature)
}

// lookup maps keys to pages, skipping keys without a resolved page.
func lookup(byKey map[string]*model.Page, keys []string) []*model.Page {
	pages := make([]*model.Page, 0, len(keys))
	for _, key := range keys {
		if page, ok := byKey[key]; ok {
			pages = append(pages, page)
		}
	}
	return pages
}

func collectStats(pages []*model.Page) Stats {
	var s Stats
	for _, page := range pages {
		s.Total++
		switch page.Class() {
		case model.StatusSuccess:
			s.Success++
		case model.StatusRedirect:
			s.Redirects++
		case model.StatusClientError:
			s.ClientErrors++
		case model.StatusServerError:
			s.ServerErrors++
		}
	}
	return s
}
