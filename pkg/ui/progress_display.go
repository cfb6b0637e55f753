package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay provides a clean, minimal progress display for a
// single-subreddit scrape: one rewriting line with passes, collected
// posts and download counters.
type ProgressDisplay struct {
	mu             sync.Mutex
	subreddit      string
	limit          int
	collectedCount int
	passes         int
	downloaded     int
	startTime      time.Time
	bytesFetched   int64
	errors         int
	isDebug        bool
}

// NewProgressDisplay creates a new progress display. A limit of 0 means
// the whole feed and disables the bar and ETA.
func NewProgressDisplay(subreddit string, limit int, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		subreddit: subreddit,
		limit:     limit,
		startTime: time.Now(),
		isDebug:   debug,
	}
}

// PassCompleted records one extraction pass
func (p *ProgressDisplay) PassCompleted(pass, newPosts, totalPosts int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.passes = pass
	p.collectedCount = totalPosts

	if p.isDebug {
		fmt.Printf("\n%s Pass %d: %d new posts (%d total)\n", Magenta("→"), pass, newPosts, totalPosts)
	} else {
		p.printProgress()
	}
}

// CompleteDownload records a finished media download
func (p *ProgressDisplay) CompleteDownload(postID string, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.downloaded++
	p.bytesFetched += size

	if p.isDebug {
		fmt.Printf("\n%s %s • %s\n", Green("✓"), postID, p.formatBytes(size))
	} else {
		p.printProgress()
	}
}

// FailDownload records a failed media download
func (p *ProgressDisplay) FailDownload(postID string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errors++

	if p.isDebug {
		fmt.Printf("\n%s Failed: %s - %v\n", Red("✗"), postID, err)
	} else {
		p.printProgress()
	}
}

// printProgress prints the minimal progress line
func (p *ProgressDisplay) printProgress() {
	if IsQuietMode() {
		return
	}

	elapsed := time.Since(p.startTime)
	rate := float64(p.collectedCount) / elapsed.Minutes()

	var bar string
	if p.limit > 0 {
		progress := float64(p.collectedCount) / float64(p.limit)
		if progress > 1.0 {
			progress = 1.0
		}
		barWidth := 20
		filled := int(progress * float64(barWidth))
		bar = fmt.Sprintf(" [%s%s] %d/%d",
			strings.Repeat("━", filled),
			strings.Repeat("─", barWidth-filled),
			p.collectedCount,
			p.limit,
		)
	} else {
		bar = fmt.Sprintf(" %d posts", p.collectedCount)
	}

	line := fmt.Sprintf("\rr/%s%s • pass %d • %.1f/min",
		Cyan(p.subreddit),
		bar,
		p.passes,
		rate,
	)

	if p.downloaded > 0 {
		line += fmt.Sprintf(" • %d media (%s)", p.downloaded, p.formatBytes(p.bytesFetched))
	}

	if p.errors > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d errors", p.errors)))
	}

	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 120), line)
}

// Complete marks the entire scrape as complete
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if IsQuietMode() {
		return
	}

	elapsed := time.Since(p.startTime)

	fmt.Printf("\n\n%s Collected %d posts from r/%s in %d passes\n",
		Green("✓"),
		p.collectedCount,
		p.subreddit,
		p.passes,
	)

	if p.downloaded > 0 {
		fmt.Printf("  %s %d media files, %s in %s\n",
			Dim("•"),
			p.downloaded,
			p.formatBytes(p.bytesFetched),
			p.formatDuration(elapsed),
		)
	}

	if p.errors > 0 {
		fmt.Printf("  %s %d downloads failed\n",
			Dim("•"),
			p.errors,
		)
	}
}

// formatDuration formats a duration in a human-readable way
func (p *ProgressDisplay) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// formatBytes formats bytes in a human-readable way
func (p *ProgressDisplay) formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
