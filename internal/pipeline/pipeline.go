// Package pipeline runs one analysis end to end: search, match, extract,
// persist, summarize.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/browser"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/logger"
	"github.com/reviewlens/reviewlens/internal/match"
	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/review"
	"github.com/reviewlens/reviewlens/internal/store"
	"github.com/reviewlens/reviewlens/internal/summarize"
	"github.com/reviewlens/reviewlens/internal/summary"
)

// ErrNoMatch is returned when no search candidate contains the query.
var ErrNoMatch = errors.New("no product matched the query")

// Request describes one analysis run.
type Request struct {
	Query    string
	Platform review.Platform
}

// Snapshot is the immutable result of one analysis run.
type Snapshot struct {
	Query       string                `json:"query" yaml:"query"`
	Platform    string                `json:"platform" yaml:"platform"`
	Product     string                `json:"product" yaml:"product"`
	URL         string                `json:"url" yaml:"url"`
	Rating      review.RatingInfo     `json:"rating" yaml:"rating"`
	Aspects     []review.AspectRating `json:"aspects,omitempty" yaml:"aspects,omitempty"`
	ReviewCount int                   `json:"review_count" yaml:"review_count"`
	Sections    summary.Sections      `json:"sections" yaml:"sections"`
	GeneratedAt time.Time             `json:"generated_at" yaml:"generated_at"`
}

// Runner wires the pipeline stages together.
type Runner struct {
	cfg        *config.Config
	store      *store.Store
	summarizer summarize.Summarizer

	newDriver    func(ctx context.Context) (platform.Driver, func(), error)
	extractorFor func(p review.Platform) (platform.Extractor, error)
}

// New creates a Runner backed by a real browser session.
func New(cfg *config.Config, st *store.Store, s summarize.Summarizer) *Runner {
	r := &Runner{cfg: cfg, store: st, summarizer: s}
	r.newDriver = func(_ context.Context) (platform.Driver, func(), error) {
		sess, err := browser.Start(browser.Config{
			UserAgent: cfg.Browser.UserAgent,
			Timeout:   cfg.Browser.Timeout,
			Settle:    cfg.Browser.Settle,
			Stealth:   cfg.Browser.Stealth,
			Headless:  cfg.Browser.Headless,
		})
		if err != nil {
			return nil, nil, err
		}
		return sess, sess.Close, nil
	}
	r.extractorFor = func(p review.Platform) (platform.Extractor, error) {
		return platform.For(p, platform.Config{
			MaxPages: cfg.MaxPages,
			Email:    cfg.Amazon.Email,
			Password: cfg.Amazon.Password,
		})
	}
	return r
}

// Run performs one analysis. A snapshot with rating and feature sections is
// still returned when no reviews were found; the summary sections stay
// empty and nothing is written to disk.
func (r *Runner) Run(ctx context.Context, req Request) (*Snapshot, error) {
	ext, err := r.extractorFor(req.Platform)
	if err != nil {
		return nil, err
	}

	result, err := r.scrape(ctx, ext, req.Query)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Query:       req.Query,
		Platform:    string(req.Platform),
		Product:     result.Product.Title,
		URL:         result.Product.URL,
		Rating:      result.Rating,
		Aspects:     result.Aspects,
		ReviewCount: len(result.Reviews),
		GeneratedAt: time.Now(),
	}
	featureText := featureLines(result.Aspects)
	snap.Sections.StarRating = fmt.Sprintf("Rating: %s/5\nTotal Ratings: %s",
		result.Rating.Rating, result.Rating.TotalRatings)
	snap.Sections.Features = featureText

	if len(result.Reviews) == 0 {
		logger.Warn("no reviews scraped, skipping summary", "product", result.Product.Title)
		return snap, nil
	}

	if err := r.store.Write(result.Reviews); err != nil {
		return nil, fmt.Errorf("failed to save reviews: %w", err)
	}
	logger.Info("saved reviews", "count", len(result.Reviews), "file", r.store.Path())

	// Summarize from the file just written rather than from memory, so the
	// CSV on disk is always exactly what the summary was built from.
	bodies, err := r.store.Bodies(r.cfg.ReviewColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to read reviews back: %w", err)
	}

	text := r.complete(ctx, summarize.SummaryPrompt(snap.Platform, bodies, featureText))
	parsed := summary.Parse(text)
	snap.Sections.Impression = parsed.Impression
	snap.Sections.Positive = parsed.Positive
	snap.Sections.Negative = parsed.Negative
	return snap, nil
}

// scrape owns the browser for the duration of one run.
func (r *Runner) scrape(ctx context.Context, ext platform.Extractor, query string) (*platform.Result, error) {
	d, closeDriver, err := r.newDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer closeDriver()

	candidates, err := ext.Search(ctx, d, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	logger.Debug("search complete", "platform", ext.Platform(), "candidates", len(candidates))

	product, ok := match.Pick(query, candidates)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrNoMatch, query, ext.Platform())
	}
	logger.Info("matched product", "title", product.Title, "url", product.URL)

	return ext.Extract(ctx, d, product)
}

// complete calls the summarizer and folds failures into the response text.
// The section parser then yields empty sections for error responses, which
// is how missing summaries are represented everywhere downstream.
func (r *Runner) complete(ctx context.Context, prompt string) string {
	text, err := r.summarizer.Complete(ctx, prompt)
	if err != nil {
		logger.Error("summarizer failed", "provider", r.summarizer.Name(), "error", err)
		return "Error: " + err.Error()
	}
	return text
}

func featureLines(aspects []review.AspectRating) string {
	lines := make([]string, 0, len(aspects))
	for _, a := range aspects {
		lines = append(lines, a.Line())
	}
	return strings.Join(lines, "\n")
}

// Chat answers a follow-up question against a previously built summary.
// Failures come back as response text, same as Run.
func Chat(ctx context.Context, s summarize.Summarizer, sections summary.Sections, question string) string {
	var parts []string
	for _, p := range []struct{ name, text string }{
		{summary.SectionImpression, sections.Impression},
		{summary.SectionPositive, sections.Positive},
		{summary.SectionNegative, sections.Negative},
	} {
		if p.text != "" {
			parts = append(parts, p.name+":\n"+p.text)
		}
	}

	text, err := s.Complete(ctx, summarize.ChatPrompt(strings.Join(parts, "\n\n"), question))
	if err != nil {
		logger.Error("chat completion failed", "provider", s.Name(), "error", err)
		return "Error: " + err.Error()
	}
	return text
}
