// Package browser wraps a headless Chrome session with small, typed
// interaction helpers. One Session drives one analysis run; page state
// persists between calls so the extractors can navigate, click and read
// like a user would.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/reviewlens/reviewlens/internal/logger"
)

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

// Config holds browser session configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration // Per-interaction wait window
	Settle    time.Duration // Extra wait after navigation / pagination
	Stealth   bool          // Inject anti-bot-detection script
	Headless  bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   10 * time.Second,
		Settle:    2 * time.Second,
		Headless:  true,
	}
}

// Session is a live browser with helpers returning typed outcomes.
type Session struct {
	config        Config
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

// Start launches the browser.
func Start(cfg Config) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if chromePath := FindChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		config:        cfg,
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}

	actions := []chromedp.Action{}
	if cfg.Stealth {
		actions = append(actions, InjectStealthScript())
	}

	// An empty Run starts the browser process up front so a missing Chrome
	// binary fails here, not mid-scrape.
	if err := chromedp.Run(browserCtx, actions...); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("browser session started",
		"stealth", cfg.Stealth,
		"headless", cfg.Headless,
		"timeout", cfg.Timeout)

	return s, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	if s.cancelBrowser != nil {
		s.cancelBrowser()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

// run executes actions against the session under the given parent context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.browserCtx
	if ctx != nil {
		// Honor caller cancellation without detaching from the browser.
		var cancel context.CancelFunc
		runCtx, cancel = mergeContext(s.browserCtx, ctx)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

// mergeContext derives a child of base that is also canceled when other is.
func mergeContext(base, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(base)
	stop := context.AfterFunc(other, cancel)
	return merged, func() { stop(); cancel() }
}

// outcomeOf maps an interaction error to a typed outcome.
func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeFound
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimedOut
	default:
		return OutcomeNotFound
	}
}

// Navigate loads a URL, waits for the document to be interactive, then
// applies the configured settle delay.
func (s *Session) Navigate(ctx context.Context, url string) error {
	logger.Debug("navigate", "url", url)
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if s.config.Settle > 0 {
		actions = append(actions, chromedp.Sleep(s.config.Settle))
	}
	if err := s.run(ctx, actions...); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// HTML returns the full page markup.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// withWait bounds a single interaction by the configured wait window.
func (s *Session) withWait(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.config.Timeout)
}

// WaitVisible waits for a selector to become visible.
func (s *Session) WaitVisible(ctx context.Context, sel string) Outcome {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	out := outcomeOf(s.run(wctx, chromedp.WaitVisible(sel, chromedp.ByQuery)))
	logger.Debug("wait visible", "selector", sel, "outcome", out.String())
	return out
}

// Click waits for a selector and clicks it.
func (s *Session) Click(ctx context.Context, sel string) Outcome {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	out := outcomeOf(s.run(wctx, chromedp.Click(sel, chromedp.ByQuery)))
	logger.Debug("click", "selector", sel, "outcome", out.String())
	return out
}

// ClickXPath waits for an XPath expression and clicks its first match.
func (s *Session) ClickXPath(ctx context.Context, expr string) Outcome {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	out := outcomeOf(s.run(wctx, chromedp.Click(expr, chromedp.BySearch)))
	logger.Debug("click xpath", "expr", expr, "outcome", out.String())
	return out
}

// ClickJS scrolls a selector into view and clicks it from script, which
// gets past overlays that swallow synthetic pointer events.
func (s *Session) ClickJS(ctx context.Context, sel string) Outcome {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.scrollIntoView({block: 'center'});
		el.click();
		return true;
	})()`, sel)
	var clicked bool
	err := s.run(wctx, chromedp.Evaluate(script, &clicked))
	if err == nil && !clicked {
		return OutcomeNotFound
	}
	return outcomeOf(err)
}

// SendKeys waits for a selector and types into it.
func (s *Session) SendKeys(ctx context.Context, sel, value string) Outcome {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	return outcomeOf(s.run(wctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	))
}

// Submit submits the form owning the selector.
func (s *Session) Submit(ctx context.Context, sel string) Outcome {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	return outcomeOf(s.run(wctx, chromedp.Submit(sel, chromedp.ByQuery)))
}

// InnerHTML returns the inner markup of the first match.
func (s *Session) InnerHTML(ctx context.Context, sel string) (string, Outcome) {
	wctx, cancel := s.withWait(ctx)
	defer cancel()
	var html string
	err := s.run(wctx, chromedp.InnerHTML(sel, &html, chromedp.ByQuery))
	return html, outcomeOf(err)
}

// ScrollBottom scrolls to the bottom of the page so lazy content loads.
func (s *Session) ScrollBottom(ctx context.Context) error {
	err := s.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
	if err != nil {
		return err
	}
	if s.config.Settle > 0 {
		return s.run(ctx, chromedp.Sleep(s.config.Settle))
	}
	return nil
}

// Escape sends an Escape keypress, used to dismiss modals.
func (s *Session) Escape(ctx context.Context) {
	_ = s.run(ctx, chromedp.KeyEvent(kb.Escape))
}

// Settle waits the configured settle delay.
func (s *Session) Settle(ctx context.Context) {
	if s.config.Settle > 0 {
		_ = s.run(ctx, chromedp.Sleep(s.config.Settle))
	}
}
