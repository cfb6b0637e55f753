package scraper

import (
	"context"
	"time"

	"redscrape/internal/downloader"
	"redscrape/pkg/browser"
	"redscrape/pkg/config"
	"redscrape/pkg/errors"
	"redscrape/pkg/logger"
	"redscrape/pkg/ratelimit"
	"redscrape/pkg/reddit"
	"redscrape/pkg/storage"
)

// Result is what one scrape call produces: the ordered posts and the
// download summary (zero-valued when no media directory is configured).
type Result struct {
	Posts     []reddit.Post
	Downloads downloader.Summary
	Subreddit string
	Passes    int
}

// Scraper ties the browser driver, the scroll controller, the extractor
// and the download pool together behind one facade.
type Scraper struct {
	cfg       *config.Config
	logger    logger.Logger
	subreddit string
	store     *storage.Manager

	// injectable for tests
	driver     browser.Driver
	wait       browser.WaitStrategy
	onPass     func(Progress)
	onDownload func(downloader.Event)
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithDriver injects a browser driver instead of launching Chrome.
func WithDriver(d browser.Driver) Option {
	return func(s *Scraper) { s.driver = d }
}

// WithWaitStrategy overrides the configured wait strategy.
func WithWaitStrategy(w browser.WaitStrategy) Option {
	return func(s *Scraper) { s.wait = w }
}

// WithProgress registers a callback invoked after every pass.
func WithProgress(fn func(Progress)) Option {
	return func(s *Scraper) { s.onPass = fn }
}

// WithDownloadEvents registers a callback for download lifecycle events
// (started, completed, failed, skipped). Events arrive from the pool's
// goroutines; the callback handles its own synchronization.
func WithDownloadEvents(fn func(downloader.Event)) Option {
	return func(s *Scraper) { s.onDownload = fn }
}

// WithLogger overrides the global logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// New validates the configuration and prepares a scraper. Every validation
// failure surfaces here as a configuration error, before any browser work.
func New(cfg *config.Config, opts ...Option) (*Scraper, error) {
	s := &Scraper{
		cfg:    cfg,
		logger: logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Newf(errors.ErrorTypeConfiguration, "invalid configuration: %v", err)
	}

	subreddit, err := reddit.ValidateFeedURL(cfg.Feed.URL)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeConfiguration, "invalid feed URL: %v", err)
	}
	s.subreddit = subreddit

	if cfg.Download.MediaDir != "" {
		store, err := storage.NewManager(cfg.Download.MediaDir)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeConfiguration, "media directory: %v", err)
		}
		s.store = store
	}

	if cfg.Feed.GetComments {
		s.logger.Warn("comment retrieval is not supported; records will be tagged comments=not_fetched")
	}

	if s.wait == nil {
		s.wait = browser.NewWaitStrategy(&cfg.Scroll)
	}

	return s, nil
}

// Subreddit returns the validated subreddit name.
func (s *Scraper) Subreddit() string {
	return s.subreddit
}

// GetPosts walks the feed until the limit is reached or the feed is
// exhausted. The returned posts are in discovery order. On a fatal scroll
// error the posts accumulated so far are returned alongside the error; the
// download pool is drained first in every case.
func (s *Scraper) GetPosts(ctx context.Context) (*Result, error) {
	sess := newSession(s.subreddit)
	log := s.logger.WithFields(sess.Fields())

	log.InfoWithFields("starting scrape", map[string]interface{}{
		"feed":          s.cfg.Feed.URL,
		"limit":         s.cfg.Feed.Limit,
		"media_enabled": s.store != nil,
		"wait_strategy": s.cfg.Scroll.WaitStrategy,
	})

	driver := s.driver
	if driver == nil {
		chrome, err := browser.NewChrome(&s.cfg.Browser, log)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeScrollTransport, "browser launch failed: %v", err)
		}
		driver = chrome
		defer driver.Close()
	}

	var pool *downloader.Pool
	if s.store != nil {
		client := reddit.NewClient(s.cfg.Download.DownloadTimeout, log)
		pool = downloader.NewPool(
			s.cfg.Download.Workers,
			client,
			s.store,
			s.newLimiter(),
			s.cfg.Download.RetryAttempts,
			log,
		)
		if s.onDownload != nil {
			pool.OnEvent(s.onDownload)
		}
		pool.Start()
	}

	onAccept := func(post reddit.Post) {
		s.dispatchMedia(pool, post, log)
	}

	ctrl := newController(driver, s.wait, &s.cfg.Scroll, s.cfg.Feed.Limit, sess, log, onAccept, s.onPass)
	posts, runErr := ctrl.run(ctx, s.cfg.Feed.URL)

	// The pool drains before the error propagates, also on abort.
	var summary downloader.Summary
	if pool != nil {
		summary = pool.Shutdown()
	}

	if s.cfg.Output.IndexFile != "" {
		if err := s.writeIndex(posts); err != nil {
			log.WithError(err).Error("failed to write post index")
			if runErr == nil {
				runErr = err
			}
		}
	}

	log.InfoWithFields("scrape finished", map[string]interface{}{
		"state":     ctrl.state.String(),
		"posts":     len(posts),
		"passes":    sess.Passes,
		"elapsed":   sess.Elapsed(),
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	})

	return &Result{
		Posts:     posts,
		Downloads: summary,
		Subreddit: s.subreddit,
		Passes:    sess.Passes,
	}, runErr
}

// dispatchMedia submits a post's downloadable media to the pool. Galleries
// are recognized but never downloaded.
func (s *Scraper) dispatchMedia(pool *downloader.Pool, post reddit.Post, log logger.Logger) {
	if pool == nil {
		return
	}

	switch post.Media {
	case reddit.MediaImage:
		for _, ref := range post.MediaURLs {
			task := downloader.Task{
				URL:    ref.URL,
				PostID: post.ID,
				Name:   ref.Name,
			}
			if err := pool.Submit(task); err != nil {
				log.WithError(err).WithField("post_id", post.ID).Warn("failed to submit download task")
			}
		}
	case reddit.MediaGallery:
		log.DebugWithFields("gallery post, media download not supported", map[string]interface{}{
			"post_id": post.ID,
			"url":     post.ContentURL,
		})
	}
}

// writeIndex dumps the posts as NDJSON in discovery order.
func (s *Scraper) writeIndex(posts []reddit.Post) error {
	w, err := storage.NewIndexWriter(s.cfg.Output.IndexFile)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.WriteAll(posts)
}

// newLimiter builds the download gate from the rate limit configuration:
// a token bucket by default, a sliding window when selected.
func (s *Scraper) newLimiter() ratelimit.Limiter {
	rl := &s.cfg.RateLimit
	if rl.Strategy == config.RateLimitSlidingWindow {
		return ratelimit.NewSlidingWindow(rl.DownloadsPerMinute, time.Minute)
	}
	return ratelimit.NewTokenBucket(rl.BurstSize, refillPeriod(rl.DownloadsPerMinute, rl.BurstSize))
}

// refillPeriod sizes the token bucket so burst tokens refill at the
// configured per-minute average.
func refillPeriod(perMinute, burst int) time.Duration {
	if perMinute <= 0 {
		return time.Minute
	}
	if burst < 1 {
		burst = 1
	}
	return time.Duration(int64(time.Minute) * int64(burst) / int64(perMinute))
}
