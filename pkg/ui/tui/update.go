package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// PassMsg is sent after every completed extraction pass
type PassMsg struct {
	Pass       int
	NewPosts   int
	TotalPosts int
}

// DownloadStartMsg is sent when a media download starts
type DownloadStartMsg struct {
	ID     string
	PostID string
	Name   string
}

// DownloadCompleteMsg is sent when a download completes
type DownloadCompleteMsg struct {
	ID   string
	Size int64
}

// DownloadErrorMsg is sent when a download fails
type DownloadErrorMsg struct {
	ID    string
	Error error
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// Regular UI update tick
		return m, tea.Batch(
			tickCmd(),
			m.spinner.Tick,
		)

	case PassMsg:
		m.RecordPass(msg.Pass, msg.NewPosts, msg.TotalPosts)
		return m, nil

	case DownloadStartMsg:
		m.StartDownload(msg.ID, msg.PostID, msg.Name)
		m.AddLogMessage("INFO", "Fetching: "+msg.Name)
		return m, nil

	case DownloadCompleteMsg:
		m.CompleteDownload(msg.ID, msg.Size)
		if download, ok := m.downloads[msg.ID]; ok {
			m.AddLogMessage("SUCCESS", "Saved: "+download.Name)
		}
		return m, nil

	case DownloadErrorMsg:
		m.FailDownload(msg.ID, msg.Error)
		if download, ok := m.downloads[msg.ID]; ok {
			m.AddLogMessage("ERROR", "Failed: "+download.Name+" - "+msg.Error.Error())
		}
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		// Clear logs
		m.mu.Lock()
		m.logMessages = []LogMessage{}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// Commands

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Helper functions for external use

// SendPass creates a message recording a completed pass
func SendPass(pass, newPosts, totalPosts int) tea.Msg {
	return PassMsg{
		Pass:       pass,
		NewPosts:   newPosts,
		TotalPosts: totalPosts,
	}
}

// SendDownloadStart creates a message to start a download
func SendDownloadStart(id, postID, name string) tea.Msg {
	return DownloadStartMsg{
		ID:     id,
		PostID: postID,
		Name:   name,
	}
}

// SendDownloadComplete creates a message when download completes
func SendDownloadComplete(id string, size int64) tea.Msg {
	return DownloadCompleteMsg{ID: id, Size: size}
}

// SendDownloadError creates a message when download fails
func SendDownloadError(id string, err error) tea.Msg {
	return DownloadErrorMsg{ID: id, Error: err}
}

// SendLog creates a log message
func SendLog(level, message string) tea.Msg {
	return LogMsg{Level: level, Message: message}
}
