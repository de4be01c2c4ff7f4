// ABOUTME: Tests for sync view functionality
// ABOUTME: Verifies sync state display and command handling
package tui

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/dealreg/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.InitSchema(database); err != nil {
		t.Fatalf("Failed to init schema: %v", err)
	}
	return database
}

func TestSyncViewRendering(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	m := NewModel(database)
	m.viewMode = ViewSync

	output := m.renderSyncView()

	if output == "" {
		t.Fatal("Sync view should not be empty")
	}
	if !strings.Contains(output, "Spreadsheet Sync") {
		t.Error("Sync view should contain title")
	}
	if !strings.Contains(output, "Not synced yet") {
		t.Error("Sync view should report an untouched sync state")
	}
}

func TestSyncViewWithErrorState(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	errMsg := "quota exceeded"
	if err := db.UpdateSyncStatus(database, "sheets", "error", &errMsg); err != nil {
		t.Fatalf("Failed to set sync status: %v", err)
	}

	m := NewModel(database)
	m.viewMode = ViewSync

	m.loadSyncStates()
	if len(m.syncStates) == 0 {
		t.Fatal("Should have loaded sync states")
	}

	output := m.renderSyncView()
	if !strings.Contains(output, "Error") {
		t.Error("Sync view should show the error status")
	}
	if !strings.Contains(output, "quota exceeded") {
		t.Error("Sync view should show the error message")
	}
}

func TestSyncEscReturnsToList(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	m := NewModel(database)
	m.viewMode = ViewSync

	updated, _ := m.handleSyncKeys(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.viewMode != ViewList {
		t.Error("Escape should return to the list view")
	}
}

func TestSyncCompleteMessage(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	m := NewModel(database)
	m.syncInProgress = true

	_ = m.handleSyncComplete(SyncCompleteMsg{Pushed: 3})

	if m.syncInProgress {
		t.Error("Sync should not be in progress after completion")
	}
	if len(m.syncMessages) == 0 {
		t.Fatal("Should have added a completion message")
	}
	if !strings.Contains(m.syncMessages[0], "3 deal(s) pushed") {
		t.Errorf("Completion message should report the push count, got %q", m.syncMessages[0])
	}
}

func TestSyncCompleteWithError(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	m := NewModel(database)
	m.syncInProgress = true

	_ = m.handleSyncComplete(SyncCompleteMsg{Error: errors.New("token expired")})

	if m.syncInProgress {
		t.Error("Sync should not be in progress after error")
	}
	if len(m.syncMessages) == 0 {
		t.Fatal("Should have added an error message")
	}
	if !strings.Contains(m.syncMessages[0], "token expired") {
		t.Errorf("Error message should include the cause, got %q", m.syncMessages[0])
	}
}

func TestSyncCompleteWithPartialFailure(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	m := NewModel(database)
	m.syncInProgress = true

	_ = m.handleSyncComplete(SyncCompleteMsg{Pushed: 2, Failed: 1})

	if len(m.syncMessages) == 0 {
		t.Fatal("Should have added a message")
	}
	if !strings.Contains(m.syncMessages[0], "2 pushed, 1 failed") {
		t.Errorf("Message should report partial failure, got %q", m.syncMessages[0])
	}
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{
			name:     "just now",
			time:     time.Now().Add(-30 * time.Second),
			expected: "just now",
		},
		{
			name:     "minutes ago",
			time:     time.Now().Add(-5 * time.Minute),
			expected: "5 minutes ago",
		},
		{
			name:     "hours ago",
			time:     time.Now().Add(-2 * time.Hour),
			expected: "2 hours ago",
		},
		{
			name:     "days ago",
			time:     time.Now().Add(-3 * 24 * time.Hour),
			expected: "3 days ago",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatTimeSince(tt.time)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestSyncMessageAddition(t *testing.T) {
	m := NewModel(nil)

	m.addSyncMessage("Test message 1")
	m.addSyncMessage("Test message 2")

	if len(m.syncMessages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(m.syncMessages))
	}

	// Messages carry a timestamp prefix
	if !strings.Contains(m.syncMessages[0], "Test message 1") {
		t.Error("First message should contain content")
	}
	if !strings.Contains(m.syncMessages[1], "Test message 2") {
		t.Error("Second message should contain content")
	}
}
