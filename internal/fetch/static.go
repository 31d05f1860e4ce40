// Package fetch retrieves pages over plain HTTP for the commands that do
// not need a browser.
package fetch

import (
	"context"
	"fmt"
	"time"
)

// PageContent represents fetched page data.
type PageContent struct {
	URL        string
	HTML       string
	StatusCode int
	FetchedAt  time.Time
}

// Config holds fetcher configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36",
		Timeout:   30 * time.Second,
	}
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (PageContent, error)
}

// ErrBadStatus wraps non-2xx responses.
type ErrBadStatus struct {
	URL        string
	StatusCode int
}

func (e *ErrBadStatus) Error() string {
	return fmt.Sprintf("fetch of %s returned status %d", e.URL, e.StatusCode)
}
