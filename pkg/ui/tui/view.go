package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Build the UI layout
	var sections []string

	// Logo
	sections = append(sections, m.renderLogo())

	// Main content area with two columns
	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	// Help
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	// Join all sections vertically
	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderLogo renders the banner
func (m Model) renderLogo() string {
	logo := `
╔═══════════════════════════════════════════════════════════════╗
║ ██████╗ ███████╗██████╗ ███████╗ ██████╗██████╗  █████╗ ██████╗ ║
║ ██╔══██╗██╔════╝██╔══██╗██╔════╝██╔════╝██╔══██╗██╔══██╗██╔══██╗║
║ ██████╔╝█████╗  ██║  ██║███████╗██║     ██████╔╝███████║██████╔╝║
║ ██╔══██╗██╔══╝  ██║  ██║╚════██║██║     ██╔══██╗██╔══██║██╔═══╝ ║
║ ██║  ██║███████╗██████╔╝███████║╚██████╗██║  ██║██║  ██║██║     ║
║ ╚═╝  ╚═╝╚══════╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ║
║            SCROLL-DRIVEN SUBREDDIT FEED EXTRACTOR               ║
╚═══════════════════════════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

// renderLeftColumn renders the left side of the UI
func (m Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Feed progress panel
	sections = append(sections, m.renderFeedPanel(width))

	// Stats panel
	sections = append(sections, m.renderStatsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Downloads panel
	sections = append(sections, m.renderDownloadsPanel(width))

	// Logs panel
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFeedPanel renders feed collection progress
func (m Model) renderFeedPanel(width int) string {
	m.mu.RLock()
	subreddit := m.subreddit
	pass := m.pass
	collected := m.collectedCount
	lastNew := m.lastNewPosts
	limit := m.limit
	m.mu.RUnlock()

	title := titleStyle.Render(" FEED PROGRESS ")

	lines := []string{
		fmt.Sprintf("%s %s %s", m.spinner.View(),
			statsLabelStyle.Render("Subreddit:"),
			statsValueStyle.Render("r/"+subreddit)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Pass:"),
			statsValueStyle.Render(fmt.Sprintf("%d (%d new)", pass, lastNew))),
	}

	if limit > 0 {
		bar := m.feedBar
		bar.Width = width - 8
		lines = append(lines,
			fmt.Sprintf("%s %s", statsLabelStyle.Render("Collected:"),
				statsValueStyle.Render(fmt.Sprintf("%d/%d", collected, limit))),
			bar.ViewAs(m.CollectionProgress()),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("%s %s", statsLabelStyle.Render("Collected:"),
				statsValueStyle.Render(fmt.Sprintf("%d (whole feed)", collected))),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderStatsPanel renders the statistics panel
func (m Model) renderStatsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SESSION STATS ")

	elapsed := time.Since(m.sessionStartTime)

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Media Saved:"), statsValueStyle.Render(fmt.Sprintf("%d files", m.totalDownloaded))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Total Size:"), statsValueStyle.Render(FormatBytes(m.totalSize))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Active:"), statsValueStyle.Render(fmt.Sprintf("%d downloads", m.activeDownloads))),
	}

	if m.failedDownloads > 0 {
		stats = append(stats, errorStyle.Render(fmt.Sprintf("✗ %d failed", m.failedDownloads)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderDownloadsPanel renders active and recently completed downloads
func (m Model) renderDownloadsPanel(width int) string {
	title := titleStyle.Render(" MEDIA DOWNLOADS ")

	active := m.GetActiveDownloads()
	completed := m.GetCompletedDownloads()

	var items []string

	if len(active) > 0 {
		items = append(items, warningStyle.Render(fmt.Sprintf("⏳ %d active", len(active))))
		for i := 0; i < 3 && i < len(active); i++ {
			items = append(items, queueItemActiveStyle.Render("• "+active[i].Name))
		}
	}

	completedCount := len(completed)
	if completedCount > 0 {
		items = append(items, "", successStyle.Render(fmt.Sprintf("✓ %d completed", completedCount)))
		start := completedCount - 3
		if start < 0 {
			start = 0
		}
		for i := start; i < completedCount; i++ {
			item := completed[i]
			items = append(items, queueItemCompletedStyle.Render(
				fmt.Sprintf("✓ %s (%s)", item.Name, FormatBytes(item.Size))))
		}
	}

	if len(items) == 0 {
		items = append(items, lipgloss.NewStyle().Foreground(dimWhite).Render("No media downloads"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderLogsPanel renders the logs panel
func (m Model) renderLogsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SESSION LOGS ")

	// Get recent logs
	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := logMessageStyle.Render(log.Message)

		// Truncate message if too long
		maxMsgLen := width - 25
		if len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	// Calculate height for logs panel to fill remaining space
	logsHeight := m.height - 30
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit the application
    ctrl+l   - Clear the log panel
    ?        - Toggle this help

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Active/Healthy
    ` + warningStyle.Render("Orange") + `   - Warning/Pending
    ` + errorStyle.Render("Red") + `      - Error/Critical

  Icons:
    ⏳       - Active download
    ✓        - Completed download
    █        - Progress indicator
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
