// Package platform implements the per-storefront extractors. Each extractor
// knows how to search its site, pick apart listing and review markup, and
// walk review pagination through a live browser session.
package platform

import (
	"context"
	"fmt"

	"github.com/reviewlens/reviewlens/internal/browser"
	"github.com/reviewlens/reviewlens/internal/match"
	"github.com/reviewlens/reviewlens/internal/review"
)

// Driver is the browser surface the extractors need. *browser.Session
// implements it; tests substitute a scripted fake.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
	Location(ctx context.Context) (string, error)
	WaitVisible(ctx context.Context, sel string) browser.Outcome
	Click(ctx context.Context, sel string) browser.Outcome
	ClickXPath(ctx context.Context, expr string) browser.Outcome
	ClickJS(ctx context.Context, sel string) browser.Outcome
	SendKeys(ctx context.Context, sel, value string) browser.Outcome
	Submit(ctx context.Context, sel string) browser.Outcome
	InnerHTML(ctx context.Context, sel string) (string, browser.Outcome)
	ScrollBottom(ctx context.Context) error
	Settle(ctx context.Context)
	Escape(ctx context.Context)
}

// Result is everything one product extraction yields.
type Result struct {
	Product match.Candidate
	Rating  review.RatingInfo
	Aspects []review.AspectRating
	Reviews []review.Review
}

// Config holds extractor settings shared by both platforms.
type Config struct {
	MaxPages int
	Email    string // Amazon sign-in, optional
	Password string
}

// Extractor scrapes one storefront.
type Extractor interface {
	Platform() review.Platform
	// SearchURL returns the public search URL for a query, usable without
	// a browser.
	SearchURL(query string) string
	// Search drives the browser through the site's search flow and returns
	// the listing candidates.
	Search(ctx context.Context, d Driver, query string) ([]match.Candidate, error)
	// ParseSearch extracts listing candidates from raw search-results HTML.
	ParseSearch(html string) []match.Candidate
	// Extract collects the rating, aspect ratings and reviews for a product.
	Extract(ctx context.Context, d Driver, product match.Candidate) (*Result, error)
}

// For returns the extractor for a platform.
func For(p review.Platform, cfg Config) (Extractor, error) {
	switch p {
	case review.PlatformAmazon:
		return NewAmazon(cfg), nil
	case review.PlatformFlipkart:
		return NewFlipkart(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %q", p)
	}
}
