// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen review of registered deals
package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewSync
)

// StatusFilter narrows the deal list to one lifecycle status.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterPending
	FilterApproved
	FilterRejected
)

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	viewMode ViewMode
	filter   StatusFilter

	// List view state
	selectedRow int

	// Detail view state
	selectedID string

	// Sync view state
	syncStates     []SyncStateDisplay
	syncInProgress bool
	syncMessages   []string

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(db *sql.DB) Model {
	return Model{
		db:       db,
		viewMode: ViewList,
		filter:   FilterAll,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case SyncCompleteMsg:
		cmd := m.handleSyncComplete(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewSync:
		return m.renderSyncView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewSync:
		return m.handleSyncKeys(msg)
	}

	return m, nil
}

// statusForFilter maps a filter tab to the status passed to the deal queries.
func (m Model) statusForFilter() string {
	switch m.filter {
	case FilterPending:
		return "pending"
	case FilterApproved:
		return "approved"
	case FilterRejected:
		return "rejected"
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
