package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/dealreg/db"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("DEAL DETAIL"))
	s.WriteString("\n\n")

	s.WriteString(m.renderDealDetail())

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderDealDetail() string {
	deal, err := db.GetDeal(m.db, m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if deal == nil {
		return "Deal not found"
	}

	var s strings.Builder

	customer := deal.CustomerName
	if deal.Confidential {
		customer = "Confidential"
	}

	s.WriteString(m.renderField("Customer", customer))
	s.WriteString(m.renderField("Location", deal.CustomerLocation))
	s.WriteString(m.renderField("Industry", deal.Industry))
	s.WriteString(m.renderField("Solution", deal.Solution))
	s.WriteString(m.renderField("Stage", deal.Stage))
	s.WriteString(m.renderField("Probability", fmt.Sprintf("%d%%", deal.Probability)))
	s.WriteString(m.renderField("Value", fmt.Sprintf("%s %.0f", deal.Currency, deal.Value)))
	s.WriteString(m.renderField("Expected Close", deal.ExpectedCloseDate))
	s.WriteString(m.renderField("Status", deal.Status))
	s.WriteString(m.renderField("Submitted", deal.SubmittedAt))

	s.WriteString("\n")
	s.WriteString(m.renderField("Reseller", deal.ResellerName))
	s.WriteString(m.renderField("Contact", deal.ResellerContact))
	s.WriteString(m.renderField("Email", deal.ResellerEmail))
	s.WriteString(m.renderField("Reseller Location", deal.ResellerLocation))

	if deal.SyncedAt != "" {
		s.WriteString(m.renderField("Synced", deal.SyncedAt))
	} else {
		s.WriteString(m.renderField("Synced", "not yet"))
	}

	if len(deal.EvidenceLinks) > 0 {
		s.WriteString(m.renderField("Evidence", strings.Join(deal.EvidenceLinks, ", ")))
	}

	attachments, _ := db.LoadAttachments(m.db, deal.ID)
	if len(attachments) > 0 {
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Bold(true).Render("ATTACHMENTS"))
		s.WriteString("\n")
		for _, a := range attachments {
			s.WriteString(fmt.Sprintf("  • %s (%s, %d bytes)\n", a.Name, a.MimeType, a.SizeBytes))
		}
	}

	// Progress updates
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("UPDATES"))
	s.WriteString("\n")

	updates, _ := db.GetDealUpdates(m.db, deal.ID)
	for _, update := range updates {
		s.WriteString(fmt.Sprintf("  • [%s] %s\n", update.CreatedAt.Format("2006-01-02"), update.Content))
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"s: Sync",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "s":
		m.viewMode = ViewSync
	}

	return m, nil
}
