package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"redscrape/pkg/browser"
	"redscrape/pkg/config"
	"redscrape/pkg/errors"
	"redscrape/pkg/logger"
	"redscrape/pkg/reddit"
)

// state is the scroll loop's position in its lifecycle.
type state int

const (
	stateInit state = iota
	stateExtracting
	stateScrolling
	stateLimitReached
	stateExhausted
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateExtracting:
		return "extracting"
	case stateScrolling:
		return "scrolling"
	case stateLimitReached:
		return "limit_reached"
	case stateExhausted:
		return "exhausted"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// postSelector is what the controller waits for after navigation.
const postSelector = "shreddit-post"

// Progress is emitted after every completed pass.
type Progress struct {
	Pass       int
	NewPosts   int
	TotalPosts int
	Limit      int
	State      string
}

// controller drives the extract-first scroll loop against a single browser
// tab. It is the only goroutine that touches the driver, the dedup tracker
// and the result slice.
type controller struct {
	driver   browser.Driver
	wait     browser.WaitStrategy
	cfg      *config.ScrollConfig
	limit    int
	dedup    *dedupTracker
	pacer    *rate.Limiter
	logger   logger.Logger
	session  *session
	onAccept func(reddit.Post)
	onPass   func(Progress)

	state  state
	height int64
	posts  []reddit.Post
}

func newController(
	driver browser.Driver,
	wait browser.WaitStrategy,
	cfg *config.ScrollConfig,
	limit int,
	sess *session,
	log logger.Logger,
	onAccept func(reddit.Post),
	onPass func(Progress),
) *controller {
	return &controller{
		driver:   driver,
		wait:     wait,
		cfg:      cfg,
		limit:    limit,
		dedup:    newDedupTracker(),
		pacer:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.ScrollsPerMinute)), 1),
		logger:   log,
		session:  sess,
		onAccept: onAccept,
		onPass:   onPass,
	}
}

// run walks the feed until a terminal state. It always returns the posts
// accumulated so far; err is non-nil only for the failed state.
func (c *controller) run(ctx context.Context, feedURL string) ([]reddit.Post, error) {
	if err := c.navigate(ctx, feedURL); err != nil {
		c.state = stateFailed
		return c.posts, err
	}

	emptyPasses := 0

	for {
		if err := ctx.Err(); err != nil {
			c.state = stateFailed
			return c.posts, err
		}

		c.state = stateExtracting
		c.dedup.beginPass()
		c.session.Passes++

		accepted, ok := c.extractPass(ctx)
		if !ok || accepted == 0 {
			emptyPasses++
			c.session.EmptyPasses++
		} else {
			emptyPasses = 0
		}

		logger.LogPass(c.session.Subreddit, c.session.Passes, accepted, len(c.posts))
		c.emitProgress(accepted)

		// Terminal conditions are checked before the next scroll: once the
		// limit is reached the driver is never scrolled again.
		if c.limit > 0 && len(c.posts) >= c.limit {
			c.state = stateLimitReached
			c.logger.InfoWithFields("post limit reached", c.terminalFields())
			return c.posts, nil
		}

		if emptyPasses >= c.cfg.MaxEmptyPasses {
			c.state = stateExhausted
			c.logger.InfoWithFields("feed exhausted", c.terminalFields())
			return c.posts, nil
		}

		c.state = stateScrolling
		grew, err := c.scrollAndWait(ctx)
		if err != nil {
			c.state = stateFailed
			return c.posts, err
		}
		if !grew {
			// An unchanged page height after the wait counts toward
			// exhaustion; a later pass with fresh posts resets it.
			emptyPasses++
		}
	}
}

// navigate loads the feed and waits for the first posts to render. A feed
// that never renders a post is not fatal here; the loop will observe empty
// passes and terminate via exhaustion.
func (c *controller) navigate(ctx context.Context, feedURL string) error {
	if err := c.driver.Navigate(ctx, feedURL); err != nil {
		return errors.Newf(errors.ErrorTypeScrollTransport, "navigation failed: %v", err)
	}

	if err := c.driver.WaitVisible(ctx, postSelector); err != nil {
		c.logger.WarnWithFields("no posts rendered after navigation", map[string]interface{}{
			"error": err.Error(),
		})
	}

	height, err := c.driver.PageHeight(ctx)
	if err != nil {
		return errors.Newf(errors.ErrorTypeScrollTransport, "initial height probe failed: %v", err)
	}
	c.height = height

	return nil
}

// extractPass snapshots the page, extracts and dedups posts, and accepts
// new ones up to the limit. ok is false when the snapshot or extraction
// failed; such a pass is swallowed as empty and counts toward exhaustion.
func (c *controller) extractPass(ctx context.Context) (accepted int, ok bool) {
	html, err := c.driver.HTML(ctx)
	if err != nil {
		c.logger.WarnWithFields("snapshot failed, treating as empty pass", map[string]interface{}{
			"pass":  c.session.Passes,
			"error": err.Error(),
		})
		return 0, false
	}

	candidates, err := reddit.ExtractPosts(html)
	if err != nil {
		c.logger.WarnWithFields("extraction failed, treating as empty pass", map[string]interface{}{
			"pass":  c.session.Passes,
			"error": err.Error(),
		})
		return 0, false
	}

	fresh := c.dedup.filterNew(candidates)

	for _, post := range fresh {
		// Accept is capped at the limit mid-pass: a pass can deliver more
		// new posts than the budget has room for.
		if c.limit > 0 && len(c.posts) >= c.limit {
			break
		}
		c.posts = append(c.posts, post)
		accepted++
		if c.onAccept != nil {
			c.onAccept(post)
		}
	}

	return accepted, true
}

// scrollAndWait paces and issues the scroll command, then runs the wait
// strategy. Transport errors here are fatal.
func (c *controller) scrollAndWait(ctx context.Context) (grew bool, err error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return false, err
	}

	if err := c.driver.ScrollToBottom(ctx); err != nil {
		return false, errors.Newf(errors.ErrorTypeScrollTransport, "scroll failed: %v", err)
	}

	newHeight, grew, err := c.wait.WaitForContent(ctx, c.driver, c.height)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, errors.Newf(errors.ErrorTypeScrollTransport, "wait after scroll failed: %v", err)
	}
	c.height = newHeight

	return grew, nil
}

func (c *controller) emitProgress(accepted int) {
	if c.onPass == nil {
		return
	}
	c.onPass(Progress{
		Pass:       c.session.Passes,
		NewPosts:   accepted,
		TotalPosts: len(c.posts),
		Limit:      c.limit,
		State:      c.state.String(),
	})
}

func (c *controller) terminalFields() map[string]interface{} {
	fields := c.session.Fields()
	fields["state"] = c.state.String()
	fields["passes"] = c.session.Passes
	fields["posts"] = len(c.posts)
	fields["elapsed"] = c.session.Elapsed()
	return fields
}
