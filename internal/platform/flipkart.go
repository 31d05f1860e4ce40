package platform

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewlens/reviewlens/internal/logger"
	"github.com/reviewlens/reviewlens/internal/match"
	"github.com/reviewlens/reviewlens/internal/review"
)

const (
	flipkartBaseURL = "https://www.flipkart.com"

	flipkartCandidateSel    = "a.wjcEIp"
	flipkartRatingSel       = "div.ipqd2A"
	flipkartAspectRatingSel = "text._2DdnFS"
	flipkartFeedbackSel     = "div.SmC0g8"
	flipkartPositiveSel     = "span.WtBCuZ"
	flipkartNegativeSel     = "span._9VjbDx"
	flipkartReviewBlockSel  = "div.EKFha-"
	flipkartStarSel         = `div[class^="XQDdHH"]`
	flipkartNameSel         = "p._2NsDsF.AwS1CA"
	flipkartDateRowSel      = "div.gHqwa8 p._2NsDsF"
	flipkartBodySel         = `div[class^="ZmyHeo"]`

	flipkartAllReviewsXPath = `//*[@id="container"]//span[contains(text(),"All") and contains(text(),"reviews")]`
	flipkartNextXPath       = `//span[text()='Next']`
)

// flipkartSkipLabelRe filters aspect labels that are page chrome rather
// than feature names.
var flipkartSkipLabelRe = regexp.MustCompile(`^(?:[0-9]+|Next)$`)

// Flipkart extracts from flipkart.com.
type Flipkart struct {
	config Config
}

// NewFlipkart creates a Flipkart extractor.
func NewFlipkart(cfg Config) *Flipkart {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Flipkart{config: cfg}
}

// Platform returns the platform identifier.
func (f *Flipkart) Platform() review.Platform { return review.PlatformFlipkart }

// SearchURL returns the public search URL for a query.
func (f *Flipkart) SearchURL(query string) string {
	return flipkartBaseURL + "/search?q=" + url.QueryEscape(query)
}

// Search loads the search URL directly and parses the listing. The login
// prompt that covers the page on first visit gets dismissed when present.
func (f *Flipkart) Search(ctx context.Context, d Driver, query string) ([]match.Candidate, error) {
	if err := d.Navigate(ctx, f.SearchURL(query)); err != nil {
		return nil, err
	}

	if out := d.ClickXPath(ctx, `//button[contains(text(),"✕")]`); out.OK() {
		logger.Debug("dismissed login popup")
		d.Settle(ctx)
	}

	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return f.ParseSearch(html), nil
}

// ParseSearch extracts product candidates from a search-results page. The
// listing anchors carry the full product name in their title attribute.
func (f *Flipkart) ParseSearch(html string) []match.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Debug("search page parse failed", "error", err)
		return nil
	}

	var candidates []match.Candidate
	doc.Find(flipkartCandidateSel).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}
		href := s.AttrOr("href", "")
		if title == "" || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = flipkartBaseURL + href
		}
		candidates = append(candidates, match.Candidate{Title: title, URL: href})
	})
	return candidates
}

// Extract opens the product page, follows the "All reviews" link, reads the
// per-category ratings, then walks the review pages.
func (f *Flipkart) Extract(ctx context.Context, d Driver, product match.Candidate) (*Result, error) {
	result := &Result{Product: product, Rating: review.NewRatingInfo()}

	if err := d.Navigate(ctx, product.URL); err != nil {
		return nil, err
	}
	// The link is missing on some listings; whatever review blocks the
	// current page shows still get scraped.
	if out := d.ClickXPath(ctx, flipkartAllReviewsXPath); out.OK() {
		d.Settle(ctx)
	} else {
		logger.Warn("all-reviews link not found, scraping current page", "outcome", out.String())
	}

	reviewsURL, err := d.Location(ctx)
	if err != nil {
		return nil, err
	}
	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	result.Rating = parseFlipkartRating(html)
	result.Aspects = f.extractAspects(ctx, d, html)

	// Aspect extraction navigates away; come back before paging reviews.
	if len(result.Aspects) > 0 {
		if err := d.Navigate(ctx, reviewsURL); err != nil {
			return nil, err
		}
	}

	result.Reviews = f.collectReviews(ctx, d, product.Title, result.Rating)
	return result, nil
}

// collectReviews pages through the review list up to MaxPages.
func (f *Flipkart) collectReviews(ctx context.Context, d Driver, productTitle string, rating review.RatingInfo) []review.Review {
	var reviews []review.Review
	for page := 1; page <= f.config.MaxPages; page++ {
		if err := d.ScrollBottom(ctx); err != nil {
			logger.Debug("scroll failed", "page", page, "error", err)
		}
		html, err := d.HTML(ctx)
		if err != nil {
			logger.Warn("failed to read review page", "page", page, "error", err)
			break
		}

		pageReviews := parseFlipkartReviews(html, productTitle, rating)
		logger.Debug("parsed review page", "page", page, "reviews", len(pageReviews))
		if len(pageReviews) == 0 {
			break
		}
		reviews = append(reviews, pageReviews...)

		if page == f.config.MaxPages {
			break
		}
		if out := d.ClickXPath(ctx, flipkartNextXPath); !out.OK() {
			logger.Debug("no next page", "page", page, "outcome", out.String())
			break
		}
		d.Settle(ctx)
	}
	return reviews
}

// extractAspects visits each per-category review page and reads its rating
// plus positive/negative counts. A category page that fails to render still
// yields an entry with placeholder values.
func (f *Flipkart) extractAspects(ctx context.Context, d Driver, html string) []review.AspectRating {
	links := parseFlipkartCategoryLinks(html)
	if len(links) == 0 {
		logger.Debug("no category links on reviews page")
		return nil
	}

	var aspects []review.AspectRating
	for _, link := range links {
		aspect := review.AspectRating{
			Label:    link.Label,
			Rating:   review.NotAvailable,
			Positive: review.NotAvailable,
			Negative: review.NotAvailable,
		}
		if err := d.Navigate(ctx, link.URL); err != nil {
			logger.Debug("category page failed", "label", link.Label, "error", err)
			aspects = append(aspects, aspect)
			continue
		}
		d.WaitVisible(ctx, flipkartAspectRatingSel)
		pageHTML, err := d.HTML(ctx)
		if err != nil {
			aspects = append(aspects, aspect)
			continue
		}
		parseFlipkartCategoryPage(pageHTML, &aspect)
		aspects = append(aspects, aspect)
	}
	return aspects
}

// categoryLink is a per-aspect review filter link ("Battery", "Camera").
type categoryLink struct {
	Label string
	URL   string
}

// parseFlipkartCategoryLinks finds the aspect filter links on a reviews
// page. Labels sit either in a caption div next to the anchor or in a span
// with an obfuscated class; "Overall" and pagination anchors are skipped.
func parseFlipkartCategoryLinks(html string) []categoryLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []categoryLink
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if !strings.Contains(href, "/product-reviews/") {
			return
		}

		label := strings.TrimSpace(s.Find("div.NTiEl0").First().Text())
		if label == "" {
			s.Find("span").EachWithBreak(func(_ int, sp *goquery.Selection) bool {
				if strings.Contains(sp.AttrOr("class", ""), "AgRA+X") {
					label = strings.TrimSpace(sp.Text())
					return false
				}
				return true
			})
		}
		if label == "" || strings.EqualFold(label, "overall") || flipkartSkipLabelRe.MatchString(label) {
			return
		}
		if seen[label] {
			return
		}
		seen[label] = true

		if strings.HasPrefix(href, "/") {
			href = flipkartBaseURL + href
		}
		links = append(links, categoryLink{Label: label, URL: href})
	})
	return links
}

// parseFlipkartCategoryPage fills an aspect from a category review page.
func parseFlipkartCategoryPage(html string, aspect *review.AspectRating) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}
	if rating := strings.TrimSpace(doc.Find(flipkartAspectRatingSel).First().Text()); rating != "" {
		aspect.Rating = rating
	}
	feedback := doc.Find(flipkartFeedbackSel).First()
	if pos := strings.TrimSpace(feedback.Find(flipkartPositiveSel).First().Text()); pos != "" {
		aspect.Positive = pos
	}
	if neg := strings.TrimSpace(feedback.Find(flipkartNegativeSel).First().Text()); neg != "" {
		aspect.Negative = neg
	}
}

// parseFlipkartRating reads the overall rating and total ratings count from
// the reviews page.
func parseFlipkartRating(html string) review.RatingInfo {
	info := review.NewRatingInfo()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return info
	}

	if rating := strings.TrimSpace(doc.Find(flipkartRatingSel).First().Text()); rating != "" {
		info.Rating = rating
	}
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.Contains(text, "Ratings") && s.Children().Length() == 0 {
			info.TotalRatings = text
			return false
		}
		return true
	})
	return info
}

// parseFlipkartReviews extracts the review blocks of one review page.
func parseFlipkartReviews(html, productTitle string, rating review.RatingInfo) []review.Review {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var reviews []review.Review
	doc.Find(flipkartReviewBlockSel).Each(func(_ int, s *goquery.Selection) {
		r := review.Review{
			ProductName:   productTitle,
			OverallRating: rating.Rating,
			TotalRatings:  rating.TotalRatings,
			ReviewerName:  review.AnonymousAuthor,
			StarRating:    review.NotAvailable,
			Date:          review.NotAvailable,
			Body:          review.NotAvailable,
		}
		if star := strings.TrimSpace(s.Find(flipkartStarSel).First().Text()); star != "" {
			r.StarRating = star
		}
		if name := strings.TrimSpace(s.Find(flipkartNameSel).First().Text()); name != "" {
			r.ReviewerName = name
		}
		if date := strings.TrimSpace(s.Find(flipkartDateRowSel).Last().Text()); date != "" {
			r.Date = date
		}
		if body := strings.TrimSpace(s.Find(flipkartBodySel).First().Text()); body != "" {
			body = strings.TrimSpace(strings.TrimSuffix(body, "READ MORE"))
			if body != "" {
				r.Body = body
			}
		}
		reviews = append(reviews, r)
	})
	return reviews
}
