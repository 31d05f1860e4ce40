package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// Static fetches pages with Colly, no JavaScript execution. Good enough for
// search-result listings, which both platforms render server-side.
type Static struct {
	config Config
}

// NewStatic creates a static fetcher.
func NewStatic(cfg Config) *Static {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Static{config: cfg}
}

// Fetch retrieves page content.
func (f *Static) Fetch(ctx context.Context, targetURL string) (PageContent, error) {
	result := PageContent{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
	)
	c.SetRequestTimeout(f.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if err := ctx.Err(); err != nil {
			r.Abort()
		}
	})

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.HTML = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := c.Visit(targetURL); err != nil {
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	c.Wait()

	if fetchErr != nil {
		return result, fetchErr
	}
	if result.StatusCode >= 400 {
		return result, &ErrBadStatus{URL: targetURL, StatusCode: result.StatusCode}
	}

	return result, nil
}
