package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DownloadState represents the state of a media download
type DownloadState int

const (
	DownloadActive DownloadState = iota
	DownloadCompleted
	DownloadFailed
)

// DownloadItem represents a single media download
type DownloadItem struct {
	ID        string
	PostID    string
	Name      string
	Size      int64
	State     DownloadState
	StartTime time.Time
	Error     error
}

// Model represents the TUI model
type Model struct {
	// UI components
	spinner spinner.Model
	feedBar progress.Model

	// Feed collection state
	subreddit      string
	limit          int
	pass           int
	collectedCount int
	lastNewPosts   int

	// Download state
	downloads       map[string]*DownloadItem
	downloadOrder   []string
	activeDownloads int

	// Stats
	totalDownloaded  int
	totalSize        int64
	failedDownloads  int
	sessionStartTime time.Time

	// UI state
	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int

	// Mutex for thread safety
	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new TUI model for one subreddit scrape. A limit of
// 0 means the whole feed.
func NewModel(subreddit string, limit int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		spinner:          s,
		feedBar:          bar,
		subreddit:        subreddit,
		limit:            limit,
		downloads:        make(map[string]*DownloadItem),
		downloadOrder:    []string{},
		sessionStartTime: time.Now(),
		logMessages:      []LogMessage{},
		maxLogMessages:   50,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// RecordPass records one completed extraction pass
func (m *Model) RecordPass(pass, newPosts, totalPosts int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pass = pass
	m.lastNewPosts = newPosts
	m.collectedCount = totalPosts
}

// StartDownload adds a new active download
func (m *Model) StartDownload(id, postID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.downloads[id] = &DownloadItem{
		ID:        id,
		PostID:    postID,
		Name:      name,
		State:     DownloadActive,
		StartTime: time.Now(),
	}
	m.downloadOrder = append(m.downloadOrder, id)
	m.activeDownloads++
}

// CompleteDownload marks a download as completed
func (m *Model) CompleteDownload(id string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if download, ok := m.downloads[id]; ok {
		download.State = DownloadCompleted
		download.Size = size
		m.activeDownloads--
		m.totalDownloaded++
		m.totalSize += size
	}
}

// FailDownload marks a download as failed
func (m *Model) FailDownload(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if download, ok := m.downloads[id]; ok {
		download.State = DownloadFailed
		download.Error = err
		m.activeDownloads--
		m.failedDownloads++
	}
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = lipgloss.Color("#FF0000")
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// GetActiveDownloads returns a slice of active downloads
func (m *Model) GetActiveDownloads() []*DownloadItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []*DownloadItem
	for _, id := range m.downloadOrder {
		if download := m.downloads[id]; download != nil && download.State == DownloadActive {
			active = append(active, download)
		}
	}
	return active
}

// GetCompletedDownloads returns a slice of completed downloads
func (m *Model) GetCompletedDownloads() []*DownloadItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var completed []*DownloadItem
	for _, id := range m.downloadOrder {
		if download := m.downloads[id]; download != nil && download.State == DownloadCompleted {
			completed = append(completed, download)
		}
	}
	return completed
}

// GetFailedDownloads returns a slice of failed downloads
func (m *Model) GetFailedDownloads() []*DownloadItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var failed []*DownloadItem
	for _, id := range m.downloadOrder {
		if download := m.downloads[id]; download != nil && download.State == DownloadFailed {
			failed = append(failed, download)
		}
	}
	return failed
}

// CollectionProgress returns the collected count as a fraction of the
// limit, or -1 when collecting the whole feed.
func (m *Model) CollectionProgress() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.limit <= 0 {
		return -1
	}
	p := float64(m.collectedCount) / float64(m.limit)
	if p > 1.0 {
		p = 1.0
	}
	return p
}

// GetCollectionRate returns the average collection rate (posts per minute)
func (m *Model) GetCollectionRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elapsed := time.Since(m.sessionStartTime).Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(m.collectedCount) / elapsed
}

// FormatBytes formats bytes to human readable format
func FormatBytes(bytes int64) string {
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
