package platform

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewlens/reviewlens/internal/logger"
	"github.com/reviewlens/reviewlens/internal/match"
	"github.com/reviewlens/reviewlens/internal/review"
	"github.com/reviewlens/reviewlens/internal/textutil"
)

const (
	amazonBaseURL = "https://www.amazon.in"

	amazonSearchBoxSel   = "#twotabsearchtextbox"
	amazonResultSel      = `div[data-component-type="s-search-result"]`
	amazonAspectLinkSel  = `a[data-hook="cr-insights-aspect-link"]`
	amazonReviewBlockSel = `[data-hook="review"]`
	amazonNextPageSel    = "li.a-last a"
	amazonSignInEmailSel = "#ap_email_login"
)

// numberNearRe matches count tokens like "1,234", "87%" or "42".
var numberNearRe = regexp.MustCompile(`\d[\d,]*%?`)

// Aspect chip sentiment is guessed from markup cues inside the insight
// panel. Positive cues win when both appear.
var (
	aspectPositiveRe = regexp.MustCompile(`(?i)check|tick|✔|green|#067D62`)
	aspectNegativeRe = regexp.MustCompile(`(?i)minus|−|–|orange|negative|#f09300`)
)

// Amazon extracts from amazon.in.
type Amazon struct {
	config Config
}

// NewAmazon creates an Amazon extractor.
func NewAmazon(cfg Config) *Amazon {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Amazon{config: cfg}
}

// Platform returns the platform identifier.
func (a *Amazon) Platform() review.Platform { return review.PlatformAmazon }

// SearchURL returns the public search URL for a query.
func (a *Amazon) SearchURL(query string) string {
	return amazonBaseURL + "/s?k=" + url.QueryEscape(query)
}

// Search loads the storefront, types the query into the search box and
// submits it, then parses the results page.
func (a *Amazon) Search(ctx context.Context, d Driver, query string) ([]match.Candidate, error) {
	if err := d.Navigate(ctx, amazonBaseURL); err != nil {
		return nil, err
	}

	// Amazon sometimes serves a "Continue shopping" interstitial to
	// automated sessions. Click through when present.
	if out := d.ClickXPath(ctx, `//button[contains(text(), "Continue")]`); out.OK() {
		logger.Debug("dismissed interstitial")
		d.Settle(ctx)
	}

	if out := d.SendKeys(ctx, amazonSearchBoxSel, query); !out.OK() {
		return nil, fmt.Errorf("search box not available: %s", out)
	}
	if out := d.Submit(ctx, amazonSearchBoxSel); !out.OK() {
		return nil, fmt.Errorf("search submit failed: %s", out)
	}
	d.Settle(ctx)
	d.WaitVisible(ctx, amazonResultSel)

	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return a.ParseSearch(html), nil
}

// ParseSearch extracts product candidates from a search-results page. The
// product link is the first anchor pointing at a /dp/ or /gp/product/ path;
// tracking query parameters are dropped.
func (a *Amazon) ParseSearch(html string) []match.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Debug("search page parse failed", "error", err)
		return nil
	}

	var candidates []match.Candidate
	doc.Find(amazonResultSel).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h2 span").First().Text())

		var link string
		s.Find("a").EachWithBreak(func(_ int, as *goquery.Selection) bool {
			href, ok := as.Attr("href")
			if !ok {
				return true
			}
			if strings.Contains(href, "/dp/") || strings.Contains(href, "/gp/product/") {
				link = href
				return false
			}
			return true
		})
		if title == "" || link == "" {
			return
		}

		link, _, _ = strings.Cut(link, "?")
		if strings.HasPrefix(link, "/") {
			link = amazonBaseURL + link
		}
		candidates = append(candidates, match.Candidate{Title: title, URL: link})
	})
	return candidates
}

// Extract visits the product page, reads the overall rating, collects the
// aspect insight chips, then walks the review pages.
func (a *Amazon) Extract(ctx context.Context, d Driver, product match.Candidate) (*Result, error) {
	asin, err := textutil.ExtractASIN(product.URL)
	if err != nil {
		return nil, fmt.Errorf("cannot derive review URL for %s: %w", product.URL, err)
	}

	result := &Result{Product: product, Rating: review.NewRatingInfo()}

	if err := d.Navigate(ctx, product.URL); err != nil {
		return nil, err
	}
	html, err := d.HTML(ctx)
	if err != nil {
		return nil, err
	}
	result.Rating = parseAmazonRating(html)
	result.Aspects = a.extractAspects(ctx, d, html)

	reviewsURL := fmt.Sprintf("%s/product-reviews/%s/?pageNumber=1&reviewerType=all_reviews", amazonBaseURL, asin)
	if err := d.Navigate(ctx, reviewsURL); err != nil {
		return nil, err
	}

	if page, err := d.HTML(ctx); err == nil && strings.Contains(page, `id="ap_email_login"`) {
		a.signIn(ctx, d)
	}

	result.Reviews = a.collectReviews(ctx, d, product.Title, result.Rating)
	return result, nil
}

// signIn walks the two-step sign-in form. Every step is best effort; review
// pages still render without a session, just capped in depth.
func (a *Amazon) signIn(ctx context.Context, d Driver) {
	if a.config.Email == "" || a.config.Password == "" {
		logger.Warn("sign-in page shown but no credentials configured, continuing unauthenticated")
		return
	}
	logger.Info("signing in to Amazon")

	if out := d.SendKeys(ctx, amazonSignInEmailSel, a.config.Email); !out.OK() {
		logger.Warn("sign-in email field", "outcome", out.String())
		return
	}
	if out := d.Click(ctx, `input[type="submit"]`); !out.OK() {
		logger.Warn("sign-in continue button", "outcome", out.String())
		return
	}
	if out := d.SendKeys(ctx, "#ap_password", a.config.Password); !out.OK() {
		logger.Warn("sign-in password field", "outcome", out.String())
		return
	}
	if out := d.Click(ctx, "#signInSubmit"); !out.OK() {
		logger.Warn("sign-in submit button", "outcome", out.String())
		return
	}
	d.Settle(ctx)
}

// collectReviews pages through the review list up to MaxPages. The loop
// stops early when a page has no review blocks or no next link.
func (a *Amazon) collectReviews(ctx context.Context, d Driver, productTitle string, rating review.RatingInfo) []review.Review {
	var reviews []review.Review
	for page := 1; page <= a.config.MaxPages; page++ {
		if err := d.ScrollBottom(ctx); err != nil {
			logger.Debug("scroll failed", "page", page, "error", err)
		}
		html, err := d.HTML(ctx)
		if err != nil {
			logger.Warn("failed to read review page", "page", page, "error", err)
			break
		}

		pageReviews := parseAmazonReviews(html, productTitle, rating)
		logger.Debug("parsed review page", "page", page, "reviews", len(pageReviews))
		if len(pageReviews) == 0 {
			break
		}
		reviews = append(reviews, pageReviews...)

		if page == a.config.MaxPages {
			break
		}
		if out := d.Click(ctx, amazonNextPageSel); !out.OK() {
			logger.Debug("no next page", "page", page, "outcome", out.String())
			break
		}
		d.Settle(ctx)
	}
	return reviews
}

// extractAspects clicks each insight chip on the product page, reads the
// panel it opens and closes it again. Failures skip the chip.
func (a *Amazon) extractAspects(ctx context.Context, d Driver, productHTML string) []review.AspectRating {
	chips := parseAmazonAspectChips(productHTML)
	if len(chips) == 0 {
		logger.Debug("no aspect chips on product page")
		return nil
	}

	var aspects []review.AspectRating
	for _, chip := range chips {
		sel := fmt.Sprintf(`%s[aria-controls=%q]`, amazonAspectLinkSel, chip.PanelID)
		if out := d.ClickJS(ctx, sel); !out.OK() {
			logger.Debug("aspect chip click failed", "label", chip.Label, "outcome", out.String())
			continue
		}
		if out := d.WaitVisible(ctx, "#"+chip.PanelID); !out.OK() {
			logger.Debug("aspect panel never appeared", "label", chip.Label)
			d.Escape(ctx)
			continue
		}
		panelHTML, out := d.InnerHTML(ctx, "#"+chip.PanelID)
		if !out.OK() {
			d.Escape(ctx)
			continue
		}
		aspect := parseAmazonAspectPanel(chip.Label, panelHTML)
		aspects = append(aspects, aspect)
		d.Escape(ctx)
		d.Settle(ctx)
	}
	return aspects
}

// aspectChip is an insight link on the product page, keyed by the panel it
// opens.
type aspectChip struct {
	Label   string
	PanelID string
}

func parseAmazonAspectChips(html string) []aspectChip {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var chips []aspectChip
	doc.Find(amazonAspectLinkSel).Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Text())
		if label == "" {
			label = strings.TrimSpace(s.AttrOr("aria-label", ""))
		}
		panelID := s.AttrOr("aria-controls", "")
		if label == "" || panelID == "" {
			return
		}
		chips = append(chips, aspectChip{Label: label, PanelID: panelID})
	})
	return chips
}

// parseAmazonAspectPanel pulls the positive/negative mention counts and a
// sentiment guess out of an insight panel.
func parseAmazonAspectPanel(label, html string) review.AspectRating {
	aspect := review.AspectRating{
		Label:     label,
		Positive:  review.NotAvailable,
		Negative:  review.NotAvailable,
		Sentiment: review.SentimentNeutral,
	}

	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	aspect.Positive = numberNear(text, "positive")
	aspect.Negative = numberNear(text, "negative")

	switch {
	case aspectPositiveRe.MatchString(html):
		aspect.Sentiment = review.SentimentPositive
	case aspectNegativeRe.MatchString(html):
		aspect.Sentiment = review.SentimentNegative
	}
	return aspect
}

// numberNear finds the count token closest after a keyword, falling back to
// the one just before it. Returns N/A when the keyword or number is absent.
func numberNear(text, keyword string) string {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return review.NotAvailable
	}

	after := text[idx+len(keyword):]
	if len(after) > 80 {
		after = after[:80]
	}
	if m := numberNearRe.FindString(after); m != "" {
		return m
	}

	start := idx - 80
	if start < 0 {
		start = 0
	}
	before := numberNearRe.FindAllString(text[start:idx], -1)
	if len(before) > 0 {
		return before[len(before)-1]
	}
	return review.NotAvailable
}

// parseAmazonRating reads the product-level star rating and total ratings
// count from the product page.
func parseAmazonRating(html string) review.RatingInfo {
	info := review.NewRatingInfo()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return info
	}

	// "4.3 out of 5 stars" - keep the leading number only.
	if alt := strings.TrimSpace(doc.Find("span.a-icon-alt").First().Text()); alt != "" {
		if fields := strings.Fields(alt); len(fields) > 0 {
			info.Rating = fields[0]
		}
	}
	if total := strings.TrimSpace(doc.Find("#acrCustomerReviewText").First().Text()); total != "" {
		info.TotalRatings = total
	}
	return info
}

// parseAmazonReviews extracts the review blocks of one review page.
func parseAmazonReviews(html, productTitle string, rating review.RatingInfo) []review.Review {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var reviews []review.Review
	doc.Find(amazonReviewBlockSel).Each(func(_ int, s *goquery.Selection) {
		r := review.Review{
			ProductName:   productTitle,
			OverallRating: rating.Rating,
			TotalRatings:  rating.TotalRatings,
			ReviewerName:  review.AnonymousAuthor,
			StarRating:    review.NotAvailable,
			Date:          review.NotAvailable,
			Body:          review.NoContent,
		}
		if name := strings.TrimSpace(s.Find("span.a-profile-name").First().Text()); name != "" {
			r.ReviewerName = name
		}
		if star := strings.TrimSpace(s.Find("span.a-icon-alt").First().Text()); star != "" {
			r.StarRating = star
		}
		if date := strings.TrimSpace(s.Find(`span[data-hook="review-date"]`).First().Text()); date != "" {
			r.Date = date
		}
		if body := strings.TrimSpace(s.Find(`span[data-hook="review-body"]`).First().Text()); body != "" {
			r.Body = body
		}
		reviews = append(reviews, r)
	})
	return reviews
}
