package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/corpix/uarand"

	"redscrape/pkg/config"
	"redscrape/pkg/logger"
)

// Chrome is the chromedp-backed Driver. One allocator, one browser context,
// one tab; not safe for concurrent use.
type Chrome struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
	logger      logger.Logger
}

// NewChrome launches a browser session per the given configuration. A random
// desktop user agent is applied in headless mode so the feed renders the
// same markup a regular session gets.
func NewChrome(cfg *config.BrowserConfig, log logger.Logger) (*Chrome, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	if cfg.Headless && cfg.RandomUserAgent {
		ua := uarand.GetRandom()
		log.DebugWithFields("using random user agent", map[string]interface{}{
			"user_agent": ua,
		})
		opts = append(opts, chromedp.UserAgent(ua))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser process up front so launch failures surface here
	// rather than on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.InfoWithFields("browser session started", map[string]interface{}{
		"headless": cfg.Headless,
		"window":   fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight),
	})

	return &Chrome{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		navTimeout:  cfg.NavigationTimeout,
		logger:      log,
	}, nil
}

// run executes chromedp actions against the tab, bounded by the navigation
// timeout. The caller's context is honored for cancellation.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx := c.ctx
	if c.navTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, c.navTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(runCtx, actions...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Navigate loads the given URL in the tab.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	c.logger.DebugWithFields("navigating", map[string]interface{}{
		"url": url,
	})
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the selector is rendered.
func (c *Chrome) WaitVisible(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("selector %q never became visible: %w", selector, err)
	}
	return nil
}

// PageHeight reports document.body.scrollHeight.
func (c *Chrome) PageHeight(ctx context.Context) (int64, error) {
	var height int64
	if err := c.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, fmt.Errorf("failed to read page height: %w", err)
	}
	return height, nil
}

// ScrollToBottom issues a scroll command to the current page bottom.
func (c *Chrome) ScrollToBottom(ctx context.Context) error {
	if err := c.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil)); err != nil {
		return fmt.Errorf("scroll command failed: %w", err)
	}
	return nil
}

// HTML returns a full outer-HTML snapshot of the document.
func (c *Chrome) HTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

// Close tears the browser session down.
func (c *Chrome) Close() error {
	c.cancelTab()
	c.cancelAlloc()
	c.logger.Debug("browser session closed")
	return nil
}
