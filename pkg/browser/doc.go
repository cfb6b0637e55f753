// Package browser wraps the chromedp-driven browser session behind a small
// Driver interface the scroll controller talks to. The session is a single
// non-thread-safe resource: one tab, one owner goroutine.
//
// Scrolling a lazy-loading feed needs a wait between scroll commands so the
// next batch of posts can render. The WaitStrategy interface captures that:
// HeightSettle polls the page height until it grows (the default), while
// RandomDelay reproduces the classic jittered fixed sleep.
package browser
