// ABOUTME: TUI view for spreadsheet sync status and controls
// ABOUTME: Displays the sync backlog and allows triggering a sync run
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/sheets"
)

var (
	syncTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	syncHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	syncServiceStyle = lipgloss.NewStyle().
				Bold(true).
				Width(12)

	syncIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	syncSyncingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	syncErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	syncMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// SyncStateDisplay is the render-ready shape of a sync_state row.
type SyncStateDisplay struct {
	Service      string
	Status       string
	LastSyncTime string
	ErrorMessage string
	InProgress   bool
}

// SyncCompleteMsg is sent when a sync run completes.
type SyncCompleteMsg struct {
	Pushed int
	Failed int
	Error  error
}

func (m Model) renderSyncView() string {
	var s strings.Builder

	// Title
	s.WriteString(syncTitleStyle.Render("Spreadsheet Sync"))
	s.WriteString("\n\n")

	// Refresh sync states
	m.loadSyncStates()

	// Backlog
	pending, err := db.UnsyncedDeals(m.db)
	if err == nil {
		s.WriteString(syncMessageStyle.Render(fmt.Sprintf("%d deal(s) waiting to sync", len(pending))))
		s.WriteString("\n\n")
	}

	// Header
	s.WriteString(syncHeaderStyle.Render("Service Status"))
	s.WriteString("\n\n")

	// Find the sheets state
	var state *SyncStateDisplay
	for i := range m.syncStates {
		if m.syncStates[i].Service == "sheets" {
			state = &m.syncStates[i]
			break
		}
	}

	var row strings.Builder
	row.WriteString("  ")
	row.WriteString(syncServiceStyle.Render("Sheets"))

	if m.syncInProgress {
		row.WriteString(syncSyncingStyle.Render("  ⟳ Syncing..."))
	} else if state == nil {
		row.WriteString(syncMessageStyle.Render("  Not synced yet"))
	} else if state.Status == "error" {
		row.WriteString(syncErrorStyle.Render("  ✗ Error"))
		if state.ErrorMessage != "" {
			row.WriteString(syncErrorStyle.Render(": " + state.ErrorMessage))
		}
	} else {
		row.WriteString(syncIdleStyle.Render("  ✓ Idle"))
		if state.LastSyncTime != "" {
			row.WriteString(syncMessageStyle.Render(" • Last synced " + state.LastSyncTime))
		}
	}

	s.WriteString(row.String())
	s.WriteString("\n\n")

	// Recent messages
	if len(m.syncMessages) > 0 {
		s.WriteString(syncHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		// Show last 5 messages
		start := 0
		if len(m.syncMessages) > 5 {
			start = len(m.syncMessages) - 5
		}
		for i := start; i < len(m.syncMessages); i++ {
			s.WriteString(syncMessageStyle.Render("  " + m.syncMessages[i]))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderSyncHelp())

	return s.String()
}

func (m Model) renderSyncHelp() string {
	help := []string{
		"Enter: Sync now",
		"r: Refresh status",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m *Model) loadSyncStates() {
	states, err := db.GetAllSyncStates(m.db)
	if err != nil {
		m.syncStates = []SyncStateDisplay{}
		return
	}

	m.syncStates = []SyncStateDisplay{}
	for _, state := range states {
		display := SyncStateDisplay{
			Service:    state.Service,
			Status:     state.Status,
			InProgress: m.syncInProgress,
		}

		if state.LastSyncTime != nil {
			display.LastSyncTime = formatTimeSince(*state.LastSyncTime)
		}

		if state.ErrorMessage != nil {
			display.ErrorMessage = *state.ErrorMessage
		}

		m.syncStates = append(m.syncStates, display)
	}
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.syncInProgress {
			return m, nil
		}
		// Mark in progress before the Cmd runs so the view updates immediately
		m.syncInProgress = true
		m.addSyncMessage("Starting spreadsheet sync...")
		return m, m.runSync()
	case "r":
		// Refresh sync status
		m.loadSyncStates()
	case "esc":
		// Go back to the deal list
		m.viewMode = ViewList
	}

	return m, nil
}

// runSync pushes all unsynced deals to the spreadsheet.
func (m Model) runSync() tea.Cmd {
	return func() tea.Msg {
		gateway, err := sheets.NewClientFromEnv()
		if err != nil {
			errMsg := err.Error()
			_ = db.UpdateSyncStatus(m.db, "sheets", "error", &errMsg)
			return SyncCompleteMsg{Error: err}
		}

		syncer := &sheets.Syncer{DB: m.db, Gateway: gateway}
		result, err := syncer.Run(context.Background())
		return SyncCompleteMsg{Pushed: result.Pushed, Failed: result.Failed, Error: err}
	}
}

// addSyncMessage adds a message to the sync message log.
func (m *Model) addSyncMessage(msg string) {
	timestamp := time.Now().Format("15:04:05")
	m.syncMessages = append(m.syncMessages, fmt.Sprintf("[%s] %s", timestamp, msg))
}

// handleSyncComplete handles sync completion messages.
func (m *Model) handleSyncComplete(msg SyncCompleteMsg) tea.Cmd {
	m.syncInProgress = false

	switch {
	case msg.Error != nil:
		m.addSyncMessage(fmt.Sprintf("✗ Sync failed: %v", msg.Error))
	case msg.Failed > 0:
		m.addSyncMessage(fmt.Sprintf("⚠ Sync finished: %d pushed, %d failed", msg.Pushed, msg.Failed))
	default:
		m.addSyncMessage(fmt.Sprintf("✓ Sync completed: %d deal(s) pushed", msg.Pushed))
	}

	// Reload sync states
	m.loadSyncStates()

	return nil
}

// formatTimeSince formats a time duration in a human-readable way.
func formatTimeSince(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
