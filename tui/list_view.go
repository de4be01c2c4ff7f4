package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/dealreg/db"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("DEAL REGISTRATIONS"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Table
	s.WriteString(m.renderDealsTable())
	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"All", "Pending", "Approved", "Rejected"}
	var rendered []string

	for i, tab := range tabs {
		if StatusFilter(i) == m.filter {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderDealsTable() string {
	deals, err := db.ListDeals(m.db, m.statusForFilter(), 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Customer", Width: 25},
		{Title: "Solution", Width: 20},
		{Title: "Stage", Width: 12},
		{Title: "Value", Width: 12},
		{Title: "Close", Width: 10},
		{Title: "Synced", Width: 6},
	}

	var rows []table.Row
	for _, deal := range deals {
		customer := deal.CustomerName
		if deal.Confidential {
			customer = "Confidential"
		}

		valueStr := fmt.Sprintf("%s %.0f", deal.Currency, deal.Value)

		synced := ""
		if deal.SyncedAt != "" {
			synced = "✓"
		}

		rows = append(rows, table.Row{
			customer,
			deal.Solution,
			deal.Stage,
			valueStr,
			deal.ExpectedCloseDate,
			synced,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	// Set selected row
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Filter",
		"Enter: View details",
		"s: Sync",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	case "tab":
		m.filter = (m.filter + 1) % 4
		m.selectedRow = 0
	case "enter":
		// Switch to detail view
		m.viewMode = ViewDetail
		m.selectedID = m.getSelectedID()
	case "s":
		m.viewMode = ViewSync
	}

	return m, nil
}

func (m Model) getSelectedID() string {
	deals, _ := db.ListDeals(m.db, m.statusForFilter(), 100)
	if m.selectedRow < len(deals) {
		return deals[m.selectedRow].ID
	}
	return ""
}
