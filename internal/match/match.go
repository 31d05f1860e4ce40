// Package match picks a product from a platform's search results.
package match

import (
	"strings"

	"github.com/reviewlens/reviewlens/internal/textutil"
)

// Candidate is one product link parsed from a search-results page.
type Candidate struct {
	Title string
	URL   string
}

// Pick returns the first candidate, in document order, whose normalized
// title contains the normalized query as a substring. There is no ranking
// and no edit-distance tolerance; the second return is false when nothing
// matches.
func Pick(query string, candidates []Candidate) (Candidate, bool) {
	want := textutil.Normalize(query)
	if want == "" {
		return Candidate{}, false
	}
	for _, c := range candidates {
		if c.Title == "" || c.URL == "" {
			continue
		}
		if strings.Contains(textutil.Normalize(c.Title), want) {
			return c, true
		}
	}
	return Candidate{}, false
}
