// Package review defines the records produced by the platform extractors.
package review

import (
	"fmt"
	"strings"
)

// Placeholder values substituted when a page element is missing.
const (
	NotAvailable    = "N/A"
	AnonymousAuthor = "Anonymous"
	NoContent       = "No Content"
)

// Review is one scraped customer review. All fields stay in the platform's
// native text format; counts and ratings are not normalized to numbers.
type Review struct {
	ProductName   string
	OverallRating string
	TotalRatings  string
	ReviewerName  string
	StarRating    string
	Date          string
	Body          string
}

// Fields returns the CSV header, in record order.
func Fields() []string {
	return []string{
		"product_name",
		"overall_rating",
		"total_ratings",
		"reviewer_name",
		"star_rating",
		"review_date",
		"review_body",
	}
}

// Row returns the review as a CSV row matching Fields().
func (r Review) Row() []string {
	return []string{
		r.ProductName,
		r.OverallRating,
		r.TotalRatings,
		r.ReviewerName,
		r.StarRating,
		r.Date,
		r.Body,
	}
}

// FromRow rebuilds a review from a CSV row.
func FromRow(row []string) (Review, error) {
	if len(row) != len(Fields()) {
		return Review{}, fmt.Errorf("expected %d columns, got %d", len(Fields()), len(row))
	}
	return Review{
		ProductName:   row[0],
		OverallRating: row[1],
		TotalRatings:  row[2],
		ReviewerName:  row[3],
		StarRating:    row[4],
		Date:          row[5],
		Body:          row[6],
	}, nil
}

// RatingInfo is the product-level rating summary shown above the reviews.
type RatingInfo struct {
	Rating       string `json:"rating" yaml:"rating"`
	TotalRatings string `json:"total_ratings" yaml:"total_ratings"`
}

// NewRatingInfo returns a RatingInfo with placeholder values.
func NewRatingInfo() RatingInfo {
	return RatingInfo{Rating: NotAvailable, TotalRatings: NotAvailable}
}

// Sentiment is the heuristic aspect-level sentiment classification.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// AspectRating is a per-feature sentiment breakdown ("Battery Life",
// "Sound Quality", ...). Rating is only populated on platforms that expose
// a per-aspect star value.
type AspectRating struct {
	Label     string    `json:"label" yaml:"label"`
	Rating    string    `json:"rating,omitempty" yaml:"rating,omitempty"`
	Positive  string    `json:"positive" yaml:"positive"`
	Negative  string    `json:"negative" yaml:"negative"`
	Sentiment Sentiment `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
}

// Line renders the aspect the way it is fed into the summarizer prompt.
func (a AspectRating) Line() string {
	if a.Rating != "" {
		return fmt.Sprintf("%s: %s | %s positive | %s negative", a.Label, a.Rating, a.Positive, a.Negative)
	}
	return fmt.Sprintf("%s: %s positive | %s negative", a.Label, a.Positive, a.Negative)
}

// Platform identifies a supported e-commerce site.
type Platform string

const (
	PlatformAmazon   Platform = "amazon"
	PlatformFlipkart Platform = "flipkart"
)

// ParsePlatform parses a user-supplied platform name.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amazon":
		return PlatformAmazon, nil
	case "flipkart":
		return PlatformFlipkart, nil
	default:
		return "", fmt.Errorf("unknown platform: %s (available: amazon, flipkart)", s)
	}
}
