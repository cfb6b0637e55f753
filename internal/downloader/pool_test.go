package downloader

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"redscrape/pkg/errors"
	"redscrape/pkg/ratelimit"
)

// MockFetcher is a mock implementation of the media fetcher
type MockFetcher struct {
	fetchDelay   time.Duration
	failURLs     map[string]bool
	fetchCounter int32
}

func (m *MockFetcher) FetchMedia(url string) ([]byte, string, error) {
	atomic.AddInt32(&m.fetchCounter, 1)
	if m.fetchDelay > 0 {
		time.Sleep(m.fetchDelay)
	}
	if m.failURLs[url] {
		// Non-retryable so tests don't sit through backoff delays
		return nil, "", &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "media not found",
			Code:    404,
		}
	}
	return []byte("mock media data"), "image/jpeg", nil
}

func (m *MockFetcher) FetchCount() int {
	return int(atomic.LoadInt32(&m.fetchCounter))
}

// MockStore is a mock implementation of the media store
type MockStore struct {
	saved     map[string]string
	saveError error
	mu        sync.Mutex
}

func NewMockStore() *MockStore {
	return &MockStore{
		saved: make(map[string]string),
	}
}

func (m *MockStore) SaveMedia(r io.Reader, postID, name, ext string) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[postID+"/"+name] = ext
	return nil
}

func (m *MockStore) SavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *MockStore) SavedExt(postID, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[postID+"/"+name]
}

func newTestPool(workers int, fetcher *MockFetcher, store *MockStore) *Pool {
	rateLimiter := ratelimit.NewTokenBucket(100, time.Second)
	return NewPool(workers, fetcher, store, rateLimiter, 1, nil)
}

func TestPoolBasicFunctionality(t *testing.T) {
	fetcher := &MockFetcher{fetchDelay: 10 * time.Millisecond}
	store := NewMockStore()

	pool := newTestPool(3, fetcher, store)
	pool.Start()

	numTasks := 10
	for i := 0; i < numTasks; i++ {
		task := Task{
			URL:    fmt.Sprintf("https://i.redd.it/pic%d.jpg", i),
			PostID: fmt.Sprintf("t3_post%d", i),
			Name:   fmt.Sprintf("pic%d", i),
		}
		if err := pool.Submit(task); err != nil {
			t.Errorf("Failed to submit task %d: %v", i, err)
		}
	}

	summary := pool.Shutdown()

	if summary.Submitted != numTasks {
		t.Errorf("Expected %d submitted, got %d", numTasks, summary.Submitted)
	}
	if summary.Succeeded != numTasks {
		t.Errorf("Expected %d succeeded, got %d", numTasks, summary.Succeeded)
	}
	if summary.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", summary.Failed)
	}
	if store.SavedCount() != numTasks {
		t.Errorf("Expected %d saved files, got %d", numTasks, store.SavedCount())
	}

	// Extension derived from the mock's Content-Type.
	if ext := store.SavedExt("t3_post0", "pic0"); ext != ".jpg" {
		t.Errorf("Expected .jpg extension, got %q", ext)
	}
}

func TestPoolFailureIsolation(t *testing.T) {
	fetcher := &MockFetcher{
		failURLs: map[string]bool{
			"https://i.redd.it/broken.jpg": true,
		},
	}
	store := NewMockStore()

	pool := newTestPool(2, fetcher, store)
	pool.Start()

	tasks := []Task{
		{URL: "https://i.redd.it/ok1.jpg", PostID: "t3_a", Name: "ok1"},
		{URL: "https://i.redd.it/broken.jpg", PostID: "t3_b", Name: "broken"},
		{URL: "https://i.redd.it/ok2.jpg", PostID: "t3_c", Name: "ok2"},
	}
	for _, task := range tasks {
		if err := pool.Submit(task); err != nil {
			t.Errorf("Failed to submit task: %v", err)
		}
	}

	summary := pool.Shutdown()

	// One failure never prevents sibling downloads.
	if summary.Succeeded != 2 {
		t.Errorf("Expected 2 succeeded, got %d", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("Expected exactly 1 failure, got %d", summary.Failed)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("Expected 1 recorded failure, got %d", len(summary.Failures))
	}
	if summary.Failures[0].Task.PostID != "t3_b" {
		t.Errorf("Wrong task recorded as failed: %+v", summary.Failures[0].Task)
	}
	if summary.Failures[0].Error == nil {
		t.Error("Expected error on recorded failure")
	}
	if store.SavedCount() != 2 {
		t.Errorf("Expected 2 saved files, got %d", store.SavedCount())
	}
}

func TestPoolSaveErrors(t *testing.T) {
	fetcher := &MockFetcher{}
	store := NewMockStore()
	store.saveError = fmt.Errorf("disk full")

	pool := newTestPool(2, fetcher, store)
	pool.Start()

	numTasks := 5
	for i := 0; i < numTasks; i++ {
		task := Task{
			URL:    fmt.Sprintf("https://i.redd.it/pic%d.jpg", i),
			PostID: fmt.Sprintf("t3_post%d", i),
			Name:   fmt.Sprintf("pic%d", i),
		}
		if err := pool.Submit(task); err != nil {
			t.Errorf("Failed to submit task %d: %v", i, err)
		}
	}

	summary := pool.Shutdown()

	if summary.Failed != numTasks {
		t.Errorf("Expected all %d tasks to fail, got %d", numTasks, summary.Failed)
	}
	if summary.Succeeded != 0 {
		t.Errorf("Expected 0 succeeded, got %d", summary.Succeeded)
	}
}

func TestPoolConcurrency(t *testing.T) {
	fetcher := &MockFetcher{fetchDelay: 100 * time.Millisecond}
	store := NewMockStore()

	pool := newTestPool(5, fetcher, store)
	pool.Start()

	numTasks := 10
	startTime := time.Now()

	for i := 0; i < numTasks; i++ {
		task := Task{
			URL:    fmt.Sprintf("https://i.redd.it/pic%d.jpg", i),
			PostID: fmt.Sprintf("t3_post%d", i),
			Name:   fmt.Sprintf("pic%d", i),
		}
		if err := pool.Submit(task); err != nil {
			t.Errorf("Failed to submit task %d: %v", i, err)
		}
	}

	summary := pool.Shutdown()
	elapsed := time.Since(startTime)

	// 5 workers x 10 tasks x 100ms each should take ~200ms.
	// Allow some buffer for overhead.
	expectedTime := 500 * time.Millisecond
	if elapsed > expectedTime {
		t.Errorf("Downloads took too long: %v (expected < %v)", elapsed, expectedTime)
	}

	if summary.Succeeded != numTasks {
		t.Errorf("Expected %d succeeded, got %d", numTasks, summary.Succeeded)
	}
}

func TestPoolSkipsDuplicateDestinations(t *testing.T) {
	fetcher := &MockFetcher{}
	store := NewMockStore()

	pool := newTestPool(2, fetcher, store)
	pool.Start()

	tasks := []Task{
		{URL: "https://i.redd.it/one.jpg", PostID: "t3_a", Name: "one"},
		{URL: "https://i.redd.it/one.jpg", PostID: "t3_a", Name: "one"},
		{URL: "https://i.redd.it/two.jpg", PostID: "t3_b", Name: "two"},
	}
	for _, task := range tasks {
		if err := pool.Submit(task); err != nil {
			t.Errorf("Failed to submit task: %v", err)
		}
	}

	summary := pool.Shutdown()

	if summary.Submitted != 3 {
		t.Errorf("Expected 3 submitted, got %d", summary.Submitted)
	}
	if summary.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", summary.Skipped)
	}
	if summary.Succeeded != 2 {
		t.Errorf("Expected 2 succeeded, got %d", summary.Succeeded)
	}
	if fetcher.FetchCount() != 2 {
		t.Errorf("Expected 2 fetches, got %d", fetcher.FetchCount())
	}
}

func TestPoolReportsEvents(t *testing.T) {
	fetcher := &MockFetcher{
		failURLs: map[string]bool{
			"https://i.redd.it/broken.jpg": true,
		},
	}
	store := NewMockStore()

	pool := newTestPool(2, fetcher, store)

	var mu sync.Mutex
	counts := make(map[EventType]int)
	var completedSize int
	var failedPost string
	pool.OnEvent(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		counts[ev.Type]++
		if ev.Type == EventCompleted {
			completedSize = ev.Size
		}
		if ev.Type == EventFailed {
			failedPost = ev.Task.PostID
		}
	})
	pool.Start()

	tasks := []Task{
		{URL: "https://i.redd.it/ok.jpg", PostID: "t3_a", Name: "ok"},
		{URL: "https://i.redd.it/broken.jpg", PostID: "t3_b", Name: "broken"},
		{URL: "https://i.redd.it/ok.jpg", PostID: "t3_a", Name: "ok"},
	}
	for _, task := range tasks {
		if err := pool.Submit(task); err != nil {
			t.Errorf("Failed to submit task: %v", err)
		}
	}

	pool.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	// One duplicate is skipped at submission; the other two run.
	if counts[EventStarted] != 2 {
		t.Errorf("Expected 2 started events, got %d", counts[EventStarted])
	}
	if counts[EventCompleted] != 1 {
		t.Errorf("Expected 1 completed event, got %d", counts[EventCompleted])
	}
	if counts[EventFailed] != 1 {
		t.Errorf("Expected 1 failed event, got %d", counts[EventFailed])
	}
	if counts[EventSkipped] != 1 {
		t.Errorf("Expected 1 skipped event, got %d", counts[EventSkipped])
	}
	if completedSize != len("mock media data") {
		t.Errorf("Expected completed event to carry the media size, got %d", completedSize)
	}
	if failedPost != "t3_b" {
		t.Errorf("Expected failure event for t3_b, got %q", failedPost)
	}
}

func TestPoolShutdownWithNoTasks(t *testing.T) {
	pool := newTestPool(2, &MockFetcher{}, NewMockStore())
	pool.Start()

	summary := pool.Shutdown()

	if summary.Submitted != 0 || summary.Succeeded != 0 || summary.Failed != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}
