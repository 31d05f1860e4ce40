// Package textutil provides text normalization and product-identifier
// extraction helpers shared by the matchers and platform extractors.
package textutil

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoASIN is returned when a URL carries no recognizable product identifier.
var ErrNoASIN = errors.New("no ASIN found in URL")

var (
	nonAlnumRe  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	asinPathRe  = regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`)
	asinQueryRe = regexp.MustCompile(`asin=([A-Z0-9]{10})`)
	asinBareRe  = regexp.MustCompile(`^[A-Z0-9]{10}$`)
)

// Normalize lowercases a string, turns every non-alphanumeric character into
// whitespace and collapses runs of whitespace. It is idempotent and case- and
// punctuation-insensitive, so normalized queries and titles can be compared
// directly.
func Normalize(s string) string {
	s = nonAlnumRe.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(s), " ")
}

// CollapseWhitespace trims and collapses runs of whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractASIN pulls the 10-character product identifier out of an Amazon
// product URL. It tries the /dp/ and /gp/product/ path forms first, then the
// asin= query parameter, then scans path segments in reverse for a bare
// token. Returns ErrNoASIN when none of the patterns match.
func ExtractASIN(productURL string) (string, error) {
	if m := asinPathRe.FindStringSubmatch(productURL); m != nil {
		return m[1], nil
	}
	if m := asinQueryRe.FindStringSubmatch(productURL); m != nil {
		return m[1], nil
	}
	segments := strings.Split(productURL, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if asinBareRe.MatchString(segments[i]) {
			return segments[i], nil
		}
	}
	return "", ErrNoASIN
}
