package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"redscrape/pkg/logger"
	"redscrape/pkg/ratelimit"
	"redscrape/pkg/retry"
	"redscrape/pkg/storage"
)

// Task is a single media download: one URL belonging to one post.
type Task struct {
	URL    string
	PostID string
	Name   string
}

// Result is the outcome of one task.
type Result struct {
	Task     Task
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int
}

// TaskError records a failed task for the final summary.
type TaskError struct {
	Task  Task
	Error error
}

// EventType classifies a task lifecycle event reported to the observer.
type EventType int

const (
	// EventStarted fires when a worker picks the task up.
	EventStarted EventType = iota
	// EventCompleted fires when the media file has been stored.
	EventCompleted
	// EventFailed fires when the task gave up after retries.
	EventFailed
	// EventSkipped fires when the task's destination was already submitted
	// this session.
	EventSkipped
)

// Event is one task lifecycle notification. Size and Err are set for
// EventCompleted and EventFailed respectively.
type Event struct {
	Type EventType
	Task Task
	Size int
	Err  error
}

// Summary aggregates every task outcome for a scrape session. Failures are
// isolated per task: a failed download never removes its post from the
// scrape results and never aborts sibling tasks.
type Summary struct {
	Submitted int
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []TaskError
}

// MediaFetcher fetches a media URL, returning the bytes and Content-Type.
type MediaFetcher interface {
	FetchMedia(url string) ([]byte, string, error)
}

// MediaStore persists one media file for a post.
type MediaStore interface {
	SaveMedia(r io.Reader, postID, name, ext string) error
}

// Pool is a bounded download worker pool. Submit enqueues without awaiting
// the result; an internal collector goroutine folds results into the
// Summary returned by Shutdown.
type Pool struct {
	numWorkers    int
	retryAttempts int
	taskQueue     chan Task
	resultQueue   chan Result
	workerWG      sync.WaitGroup
	collectorWG   sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	fetcher       MediaFetcher
	store         MediaStore
	rateLimiter   ratelimit.Limiter
	logger        logger.Logger
	onEvent       func(Event)

	mu        sync.Mutex
	submitted int
	seen      map[string]bool
	summary   Summary

	shutdownOnce sync.Once
}

// NewPool creates a download pool with a fixed worker count.
func NewPool(
	numWorkers int,
	fetcher MediaFetcher,
	store MediaStore,
	rateLimiter ratelimit.Limiter,
	retryAttempts int,
	log logger.Logger,
) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &Pool{
		numWorkers:    numWorkers,
		retryAttempts: retryAttempts,
		taskQueue:     make(chan Task, numWorkers*2),
		resultQueue:   make(chan Result, numWorkers),
		ctx:           ctx,
		cancel:        cancel,
		fetcher:       fetcher,
		store:         store,
		rateLimiter:   rateLimiter,
		logger:        log,
		seen:          make(map[string]bool),
	}
}

// OnEvent registers an observer for task lifecycle events, used by the
// progress display and the TUI. Must be set before Start. Events arrive
// from worker and collector goroutines; the observer handles its own
// synchronization.
func (p *Pool) OnEvent(fn func(Event)) {
	p.onEvent = fn
}

func (p *Pool) emit(ev Event) {
	if p.onEvent != nil {
		p.onEvent(ev)
	}
}

// Start launches the workers and the result collector.
func (p *Pool) Start() {
	p.logger.InfoWithFields("Starting download pool", map[string]interface{}{
		"num_workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.workerWG.Add(1)
		go p.worker(i)
	}

	p.collectorWG.Add(1)
	go p.collect()
}

// Submit enqueues a download task without awaiting its result. A task whose
// destination was already submitted this session is counted as skipped.
func (p *Pool) Submit(task Task) error {
	dest := task.PostID + "/" + task.Name
	p.mu.Lock()
	p.submitted++
	if p.seen[dest] {
		p.summary.Skipped++
		p.mu.Unlock()
		p.logger.DebugWithFields("Task skipped, destination already queued", map[string]interface{}{
			"post_id": task.PostID,
			"name":    task.Name,
		})
		p.emit(Event{Type: EventSkipped, Task: task})
		return nil
	}
	p.seen[dest] = true
	p.mu.Unlock()

	select {
	case p.taskQueue <- task:
		p.logger.DebugWithFields("Task submitted to queue", map[string]interface{}{
			"post_id": task.PostID,
			"name":    task.Name,
		})
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("download pool is shutting down")
	}
}

// Shutdown drains the pool: no more submissions, workers finish every
// queued task, the collector folds the remaining results, and the final
// Summary is returned. Safe to call once per pool; the controller calls it
// exactly once after reaching a terminal state, including aborts.
func (p *Pool) Shutdown() Summary {
	p.shutdownOnce.Do(func() {
		p.logger.Info("Draining download pool...")

		close(p.taskQueue)
		p.workerWG.Wait()
		close(p.resultQueue)
		p.collectorWG.Wait()
		p.cancel()

		p.mu.Lock()
		p.summary.Submitted = p.submitted
		p.mu.Unlock()

		p.logger.InfoWithFields("Download pool drained", map[string]interface{}{
			"submitted": p.summary.Submitted,
			"succeeded": p.summary.Succeeded,
			"failed":    p.summary.Failed,
			"skipped":   p.summary.Skipped,
		})
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary
}

// QueueSize returns the current number of queued tasks.
func (p *Pool) QueueSize() int {
	return len(p.taskQueue)
}

// Workers returns the pool's worker count.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// collect folds results into the summary until the result queue closes.
func (p *Pool) collect() {
	defer p.collectorWG.Done()

	for result := range p.resultQueue {
		p.mu.Lock()
		switch {
		case result.Skipped:
			p.summary.Skipped++
		case result.Success:
			p.summary.Succeeded++
		default:
			p.summary.Failed++
			p.summary.Failures = append(p.summary.Failures, TaskError{
				Task:  result.Task,
				Error: result.Error,
			})
		}
		p.mu.Unlock()

		logger.LogDownload(result.Task.PostID, result.Task.Name, result.Success, result.Error)

		if result.Success {
			p.emit(Event{Type: EventCompleted, Task: result.Task, Size: result.Size})
		} else if !result.Skipped {
			p.emit(Event{Type: EventFailed, Task: result.Task, Err: result.Error})
		}
	}
}

// worker is the main worker routine.
func (p *Pool) worker(id int) {
	defer p.workerWG.Done()

	p.logger.DebugWithFields("Worker started", map[string]interface{}{
		"worker_id": id,
	})

	for task := range p.taskQueue {
		select {
		case <-p.ctx.Done():
			p.logger.DebugWithFields("Worker stopping, context cancelled", map[string]interface{}{
				"worker_id": id,
			})
			return
		default:
		}

		p.emit(Event{Type: EventStarted, Task: task})
		result := p.processTask(task, id)

		select {
		case p.resultQueue <- result:
		case <-p.ctx.Done():
			return
		}
	}

	p.logger.DebugWithFields("Worker stopping, task queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

// processTask handles one download: rate-limit gate, fetch with retries,
// extension resolution, atomic store write.
func (p *Pool) processTask(task Task, workerID int) Result {
	start := time.Now()
	result := Result{Task: task}

	p.logger.DebugWithFields("Worker processing task", map[string]interface{}{
		"worker_id": workerID,
		"post_id":   task.PostID,
		"name":      task.Name,
	})

	if !p.rateLimiter.Allow() {
		p.logger.DebugWithFields("Worker waiting for rate limit", map[string]interface{}{
			"worker_id": workerID,
			"post_id":   task.PostID,
		})
		p.rateLimiter.Wait()
	}

	data, contentType, err := p.fetchWithRetry(task.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		p.logger.ErrorWithFields("Worker failed to download media", map[string]interface{}{
			"worker_id": workerID,
			"post_id":   task.PostID,
			"url":       task.URL,
			"error":     err.Error(),
			"duration":  result.Duration,
		})

		return result
	}

	result.Size = len(data)
	ext := storage.ExtensionFor(contentType, task.URL)

	if err := p.store.SaveMedia(bytes.NewReader(data), task.PostID, task.Name, ext); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		p.logger.ErrorWithFields("Worker failed to save media", map[string]interface{}{
			"worker_id": workerID,
			"post_id":   task.PostID,
			"error":     err.Error(),
			"size":      result.Size,
		})

		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	p.logger.DebugWithFields("Worker completed task", map[string]interface{}{
		"worker_id": workerID,
		"post_id":   task.PostID,
		"name":      task.Name,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}

// fetchWithRetry wraps the media fetch in the retry policy.
func (p *Pool) fetchWithRetry(url string) ([]byte, string, error) {
	var data []byte
	var contentType string

	cfg := &retry.Config{
		MaxAttempts: p.retryAttempts,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf:     retry.DefaultRetryIf,
		Context:     p.ctx,
		Logger:      p.logger,
	}

	err := retry.Do(func() error {
		var fetchErr error
		data, contentType, fetchErr = p.fetcher.FetchMedia(url)
		return fetchErr
	}, cfg)

	return data, contentType, err
}
