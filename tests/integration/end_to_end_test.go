package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"redscrape/pkg/logger"
	"redscrape/pkg/reddit"
	"redscrape/pkg/scraper"
)

func newScraper(t *testing.T, helper *TestHelper, feedURL string, limit int, driver *FakeFeedDriver) *scraper.Scraper {
	t.Helper()
	s, err := scraper.New(helper.Config(feedURL, limit),
		scraper.WithDriver(driver),
		scraper.WithWaitStrategy(InstantWait{}),
		scraper.WithLogger(logger.NewNopLogger()),
	)
	if err != nil {
		t.Fatalf("Failed to create scraper: %v", err)
	}
	return s
}

// TestEndToEndScrapeWithDownloads runs a full scrape: scripted feed,
// media downloads against the mock CDN, and the NDJSON index.
func TestEndToEndScrapeWithDownloads(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()

	// Two passes: the second re-renders the first pass's posts plus two
	// new ones, exercising dedup.
	pass1 := []FeedPost{
		{ID: "t3_a1", Title: "first", MediaURL: mockServer.ImageURL("alpha")},
		{ID: "t3_a2", Title: "second"},
	}
	pass2 := append(pass1,
		FeedPost{ID: "t3_a3", Title: "third", MediaURL: mockServer.ImageURL("beta")},
		FeedPost{ID: "t3_a4", Title: "fourth"},
	)

	driver := NewFakeFeedDriver(RenderFeed(pass1), RenderFeed(pass2))
	s := newScraper(t, helper, "https://www.reddit.com/r/test", 0, driver)

	result, err := s.GetPosts(context.Background())
	if err != nil {
		t.Fatalf("GetPosts failed: %v", err)
	}

	if len(result.Posts) != 4 {
		t.Errorf("Expected 4 posts, got %d", len(result.Posts))
	}
	if result.Subreddit != "test" {
		t.Errorf("Expected subreddit test, got %s", result.Subreddit)
	}

	// Discovery order preserved across passes.
	wantOrder := []string{"t3_a1", "t3_a2", "t3_a3", "t3_a4"}
	for i, want := range wantOrder {
		if result.Posts[i].ID != want {
			t.Errorf("Post %d: expected %s, got %s", i, want, result.Posts[i].ID)
		}
	}

	// Both image posts downloaded, nothing else.
	if result.Downloads.Submitted != 2 || result.Downloads.Succeeded != 2 {
		t.Errorf("Expected 2/2 downloads, got %d/%d",
			result.Downloads.Submitted, result.Downloads.Succeeded)
	}

	for _, f := range []struct{ postID, name string }{
		{"t3_a1", "alpha.jpg"},
		{"t3_a3", "beta.jpg"},
	} {
		path := filepath.Join(helper.MediaDir(), f.postID, f.name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected media file %s: %v", path, err)
		}
	}

	// Index file holds one record per post in discovery order.
	f, err := os.Open(helper.IndexFile())
	if err != nil {
		t.Fatalf("Failed to open index file: %v", err)
	}
	defer f.Close()

	var indexed []reddit.Post
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var p reddit.Post
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			t.Fatalf("Failed to decode index line: %v", err)
		}
		indexed = append(indexed, p)
	}

	if len(indexed) != 4 {
		t.Fatalf("Expected 4 index records, got %d", len(indexed))
	}
	for i, want := range wantOrder {
		if indexed[i].ID != want {
			t.Errorf("Index record %d: expected %s, got %s", i, want, indexed[i].ID)
		}
		if indexed[i].Comments != reddit.CommentsNotFetched {
			t.Errorf("Index record %d: expected comments not_fetched, got %s", i, indexed[i].Comments)
		}
	}
}

// TestEndToEndLimitStopsCollection verifies the post limit bounds the
// scrape even when the feed keeps growing.
func TestEndToEndLimitStopsCollection(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()
	helper.SetupMockServer()

	var posts []FeedPost
	var snapshots []string
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			posts = append(posts, FeedPost{
				ID:    RenderPostID(i*4 + j),
				Title: "post",
			})
		}
		snapshots = append(snapshots, RenderFeed(posts))
	}

	driver := NewFakeFeedDriver(snapshots...)
	s := newScraper(t, helper, "https://www.reddit.com/r/test", 10, driver)

	result, err := s.GetPosts(context.Background())
	if err != nil {
		t.Fatalf("GetPosts failed: %v", err)
	}

	if len(result.Posts) != 10 {
		t.Errorf("Expected exactly 10 posts, got %d", len(result.Posts))
	}

	// Pass 3 delivers post 10; no scroll happens after that pass.
	if driver.Scrolls() != 2 {
		t.Errorf("Expected 2 scrolls, got %d", driver.Scrolls())
	}
}

// TestEndToEndFailedDownloadIsIsolated verifies that one failing media
// fetch never aborts the scrape or the other downloads.
func TestEndToEndFailedDownloadIsIsolated(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	mockServer := helper.SetupMockServer()
	mockServer.SetErrorResponse("/img/pic-gone.jpg", http.StatusNotFound)

	feed := []FeedPost{
		{ID: "t3_ok1", Title: "fine", MediaURL: mockServer.ImageURL("one")},
		{ID: "t3_bad", Title: "missing", MediaURL: mockServer.ImageURL("gone")},
		{ID: "t3_ok2", Title: "also fine", MediaURL: mockServer.ImageURL("two")},
	}

	driver := NewFakeFeedDriver(RenderFeed(feed))
	s := newScraper(t, helper, "https://www.reddit.com/r/test", 0, driver)

	result, err := s.GetPosts(context.Background())
	if err != nil {
		t.Fatalf("GetPosts failed: %v", err)
	}

	if len(result.Posts) != 3 {
		t.Errorf("Expected all 3 posts collected, got %d", len(result.Posts))
	}
	if result.Downloads.Succeeded != 2 {
		t.Errorf("Expected 2 successful downloads, got %d", result.Downloads.Succeeded)
	}
	if result.Downloads.Failed != 1 {
		t.Errorf("Expected 1 failed download, got %d", result.Downloads.Failed)
	}
	if len(result.Downloads.Failures) != 1 || result.Downloads.Failures[0].Task.PostID != "t3_bad" {
		t.Errorf("Expected failure recorded for t3_bad, got %+v", result.Downloads.Failures)
	}
}

// TestEndToEndRejectsNonSubredditURL verifies validation happens before
// any browser work
func TestEndToEndRejectsNonSubredditURL(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	_, err := scraper.New(helper.Config("https://www.reddit.com/user/somebody", 0),
		scraper.WithLogger(logger.NewNopLogger()),
	)
	if err == nil {
		t.Fatal("Expected error for non-subreddit URL")
	}
}
