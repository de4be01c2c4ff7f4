// ABOUTME: CLI entry point for the interactive terminal UI
// ABOUTME: Runs the bubbletea program in the alternate screen
package cli

import (
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/dealreg/tui"
)

// TUICommand starts the full-screen deal review interface.
func TUICommand(database *sql.DB) error {
	p := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
