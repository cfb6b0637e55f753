package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"redscrape/pkg/browser"
	"redscrape/pkg/config"
)

// TestHelper bundles the shared fixtures for an integration test: a
// temp workspace, a mock media server and a scraper configuration.
type TestHelper struct {
	t          *testing.T
	mediaDir   string
	indexFile  string
	mockServer *MockMediaServer
}

// NewTestHelper creates a new test helper with a temp workspace
func NewTestHelper(t *testing.T) *TestHelper {
	dir := t.TempDir()
	return &TestHelper{
		t:         t,
		mediaDir:  filepath.Join(dir, "media"),
		indexFile: filepath.Join(dir, "posts.ndjson"),
	}
}

// Cleanup tears down everything the helper started
func (h *TestHelper) Cleanup() {
	if h.mockServer != nil {
		h.mockServer.Close()
	}
}

// SetupMockServer starts the mock media server
func (h *TestHelper) SetupMockServer() *MockMediaServer {
	h.mockServer = NewMockMediaServer()
	return h.mockServer
}

// MediaDir returns the per-test media directory
func (h *TestHelper) MediaDir() string {
	return h.mediaDir
}

// IndexFile returns the per-test index file path
func (h *TestHelper) IndexFile() string {
	return h.indexFile
}

// Config builds a scraper configuration wired to the test workspace.
// Pacing is effectively disabled so tests run instantly.
func (h *TestHelper) Config(feedURL string, limit int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Feed.URL = feedURL
	cfg.Feed.Limit = limit
	cfg.Download.MediaDir = h.mediaDir
	cfg.Download.RetryAttempts = 1
	cfg.Output.IndexFile = h.indexFile
	cfg.Scroll.ScrollsPerMinute = 100000
	cfg.Logging.Level = "error"
	return cfg
}

// FeedPost describes one post rendered into the fake feed
type FeedPost struct {
	ID       string
	Title    string
	MediaURL string
}

// RenderFeed builds a listing-page snapshot from the given posts
func RenderFeed(posts []FeedPost) string {
	var b strings.Builder
	for i, p := range posts {
		b.WriteString(fmt.Sprintf(`<shreddit-post id=%q post-title=%q author="tester" score="%d" feedindex="%d" permalink="/r/test/comments/%s/post/"`,
			p.ID, p.Title, i*10, i, strings.TrimPrefix(p.ID, "t3_")))
		if p.MediaURL != "" {
			b.WriteString(fmt.Sprintf(` content-href=%q`, p.MediaURL))
		}
		b.WriteString(`></shreddit-post>`)
	}
	return b.String()
}

// RenderPostID builds a deterministic post ID for generated feeds
func RenderPostID(n int) string {
	return fmt.Sprintf("t3_p%03d", n)
}

// FakeFeedDriver implements browser.Driver with scripted snapshots, one
// per extraction pass. The last snapshot repeats once the script runs
// out, so the scrape terminates via exhaustion.
type FakeFeedDriver struct {
	snapshots []string
	htmlCalls int
	scrolls   int
}

// NewFakeFeedDriver creates a fake driver serving the given snapshots
func NewFakeFeedDriver(snapshots ...string) *FakeFeedDriver {
	return &FakeFeedDriver{snapshots: snapshots}
}

func (d *FakeFeedDriver) Navigate(ctx context.Context, url string) error    { return nil }
func (d *FakeFeedDriver) WaitVisible(ctx context.Context, sel string) error { return nil }
func (d *FakeFeedDriver) Close() error                                      { return nil }

func (d *FakeFeedDriver) PageHeight(ctx context.Context) (int64, error) {
	return int64(1000 + d.scrolls*500), nil
}

func (d *FakeFeedDriver) ScrollToBottom(ctx context.Context) error {
	d.scrolls++
	return nil
}

func (d *FakeFeedDriver) HTML(ctx context.Context) (string, error) {
	d.htmlCalls++
	idx := d.htmlCalls - 1
	if idx >= len(d.snapshots) {
		idx = len(d.snapshots) - 1
	}
	return d.snapshots[idx], nil
}

// Scrolls returns how many scroll commands the driver received
func (d *FakeFeedDriver) Scrolls() int {
	return d.scrolls
}

// InstantWait is a wait strategy that probes the height once without
// sleeping
type InstantWait struct{}

func (InstantWait) WaitForContent(ctx context.Context, d browser.Driver, last int64) (int64, bool, error) {
	h, err := d.PageHeight(ctx)
	if err != nil {
		return last, false, err
	}
	return h, h > last, nil
}
