// ABOUTME: Tests for deal record database operations
// ABOUTME: Covers persistence, views, append-only updates, and sync marks
package db

import (
	"testing"

	"github.com/harperreed/dealreg/models"
)

func sampleRecord(id string) *models.DealRecord {
	return &models.DealRecord{
		ID:                id,
		SubmittedAt:       "2026-09-01",
		ResellerCountry:   "Singapore",
		ResellerLocation:  "Singapore",
		ResellerName:      "Lionstone Geo Pte Ltd",
		ResellerContact:   "Mei Ling Tan",
		ResellerEmail:     "meiling@lionstone.example.com",
		ResellerPhone:     "+65 8123 4567",
		CustomerName:      "Acme Construction",
		CustomerLocation:  "Singapore, Singapore",
		City:              "Singapore",
		Country:           "Singapore",
		Industry:          "Construction",
		Currency:          "SGD",
		Value:             48500,
		Solution:          "Xgrids L2 PRO",
		Stage:             models.StageProposal,
		Probability:       55,
		ExpectedCloseDate: "2026-10-01",
		Supports:          []string{"Demo unit / loaner", "Pricing support"},
		Competitors:       []string{"NavVis", "Leica BLK2GO"},
		Notes:             "Follow-up after site demo",
		EvidenceLinks:     []string{"https://drive.example.com/quote.pdf"},
		Attachments: []models.Attachment{
			{Name: "quote.pdf", MimeType: "application/pdf", SizeBytes: 9, Content: "cGRmLWJ5dGVz"},
		},
		Status: models.StatusPending,
	}
}

func TestCreateAndGetDeal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rec := sampleRecord("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if err := CreateDeal(db, rec); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	got, err := GetDeal(db, rec.ID)
	if err != nil {
		t.Fatalf("GetDeal failed: %v", err)
	}
	if got == nil {
		t.Fatal("Deal not found")
	}

	if got.CustomerName != "Acme Construction" {
		t.Errorf("Expected customer 'Acme Construction', got %q", got.CustomerName)
	}
	if got.Value != 48500 {
		t.Errorf("Expected value 48500, got %v", got.Value)
	}
	if len(got.Supports) != 2 || got.Supports[0] != "Demo unit / loaner" {
		t.Errorf("Supports not round-tripped: %v", got.Supports)
	}
	if len(got.EvidenceLinks) != 1 {
		t.Errorf("Evidence links not round-tripped: %v", got.EvidenceLinks)
	}
	if got.SyncedAt != "" {
		t.Errorf("New deal should have no synced_at, got %q", got.SyncedAt)
	}

	// Local view: attachment metadata without payloads.
	if len(got.Attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(got.Attachments))
	}
	if got.Attachments[0].Content != "" {
		t.Error("GetDeal should not load attachment payloads")
	}
	if got.Attachments[0].SizeBytes != 9 {
		t.Errorf("Expected size 9, got %d", got.Attachments[0].SizeBytes)
	}
}

func TestCreateDealRequiresID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rec := sampleRecord("")
	if err := CreateDeal(db, rec); err == nil {
		t.Error("Expected error for record without ID")
	}
}

func TestGetDealNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := GetDeal(db, "missing")
	if err != nil {
		t.Fatalf("GetDeal failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing deal")
	}
}

func TestLoadAttachments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rec := sampleRecord("deal-1")
	if err := CreateDeal(db, rec); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	attachments, err := LoadAttachments(db, "deal-1")
	if err != nil {
		t.Fatalf("LoadAttachments failed: %v", err)
	}
	if len(attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(attachments))
	}
	if attachments[0].Content != "cGRmLWJ5dGVz" {
		t.Errorf("Transport view should include payloads, got %q", attachments[0].Content)
	}
}

func TestListDeals(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, id := range []string{"deal-1", "deal-2", "deal-3"} {
		if err := CreateDeal(db, sampleRecord(id)); err != nil {
			t.Fatalf("CreateDeal %s failed: %v", id, err)
		}
	}

	deals, err := ListDeals(db, "", 0)
	if err != nil {
		t.Fatalf("ListDeals failed: %v", err)
	}
	if len(deals) != 3 {
		t.Errorf("Expected 3 deals, got %d", len(deals))
	}

	pending, err := ListDeals(db, models.StatusPending, 0)
	if err != nil {
		t.Fatalf("ListDeals by status failed: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("Expected 3 pending deals, got %d", len(pending))
	}

	approved, err := ListDeals(db, models.StatusApproved, 0)
	if err != nil {
		t.Fatalf("ListDeals by status failed: %v", err)
	}
	if len(approved) != 0 {
		t.Errorf("Expected 0 approved deals, got %d", len(approved))
	}
}

func TestAddDealUpdateAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rec := sampleRecord("deal-1")
	if err := CreateDeal(db, rec); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	first := &models.DealUpdate{DealID: "deal-1", Content: "Site survey booked"}
	if err := AddDealUpdate(db, first); err != nil {
		t.Fatalf("AddDealUpdate failed: %v", err)
	}
	second := &models.DealUpdate{DealID: "deal-1", Content: "PO expected next week"}
	if err := AddDealUpdate(db, second); err != nil {
		t.Fatalf("AddDealUpdate failed: %v", err)
	}

	updates, err := GetDealUpdates(db, "deal-1")
	if err != nil {
		t.Fatalf("GetDealUpdates failed: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("Expected 2 updates, got %d", len(updates))
	}
	if updates[0].Content != "Site survey booked" {
		t.Errorf("Updates out of order: %q first", updates[0].Content)
	}
	if updates[0].CreatedAt.IsZero() {
		t.Error("Update timestamp was not set")
	}
}

func TestSetRemindersOptIn(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := CreateDeal(db, sampleRecord("deal-1")); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	if err := SetRemindersOptIn(db, "deal-1", true); err != nil {
		t.Fatalf("SetRemindersOptIn failed: %v", err)
	}
	// Idempotent on retry.
	if err := SetRemindersOptIn(db, "deal-1", true); err != nil {
		t.Fatalf("Second SetRemindersOptIn failed: %v", err)
	}

	got, err := GetDeal(db, "deal-1")
	if err != nil {
		t.Fatalf("GetDeal failed: %v", err)
	}
	if !got.RemindersOptIn {
		t.Error("Reminders opt-in was not persisted")
	}
}

func TestMarkSyncedAndUnsyncedDeals(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := CreateDeal(db, sampleRecord("deal-1")); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
	if err := CreateDeal(db, sampleRecord("deal-2")); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	unsynced, err := UnsyncedDeals(db)
	if err != nil {
		t.Fatalf("UnsyncedDeals failed: %v", err)
	}
	if len(unsynced) != 2 {
		t.Fatalf("Expected 2 unsynced deals, got %d", len(unsynced))
	}

	if err := MarkSynced(db, "deal-1", "2026-09-01"); err != nil {
		t.Fatalf("MarkSynced failed: %v", err)
	}

	unsynced, err = UnsyncedDeals(db)
	if err != nil {
		t.Fatalf("UnsyncedDeals failed: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].ID != "deal-2" {
		t.Errorf("Expected only deal-2 unsynced, got %v", unsynced)
	}

	got, err := GetDeal(db, "deal-1")
	if err != nil {
		t.Fatalf("GetDeal failed: %v", err)
	}
	if got.SyncedAt != "2026-09-01" {
		t.Errorf("Expected synced_at 2026-09-01, got %q", got.SyncedAt)
	}
}

func TestSyncStateLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	state, err := GetSyncState(db, "sheets")
	if err != nil {
		t.Fatalf("GetSyncState failed: %v", err)
	}
	if state != nil {
		t.Fatal("Expected no sync state initially")
	}

	if err := UpdateSyncStatus(db, "sheets", models.SyncStatusSyncing, nil); err != nil {
		t.Fatalf("UpdateSyncStatus failed: %v", err)
	}

	msg := "append failed: 503"
	if err := UpdateSyncStatus(db, "sheets", models.SyncStatusError, &msg); err != nil {
		t.Fatalf("UpdateSyncStatus with error failed: %v", err)
	}

	state, err = GetSyncState(db, "sheets")
	if err != nil {
		t.Fatalf("GetSyncState failed: %v", err)
	}
	if state.Status != models.SyncStatusError {
		t.Errorf("Expected error status, got %s", state.Status)
	}
	if state.ErrorMessage == nil || *state.ErrorMessage != msg {
		t.Errorf("Error message not stored: %v", state.ErrorMessage)
	}

	if err := MarkSyncComplete(db, "sheets"); err != nil {
		t.Fatalf("MarkSyncComplete failed: %v", err)
	}

	state, err = GetSyncState(db, "sheets")
	if err != nil {
		t.Fatalf("GetSyncState failed: %v", err)
	}
	if state.Status != models.SyncStatusIdle {
		t.Errorf("Expected idle status, got %s", state.Status)
	}
	if state.ErrorMessage != nil {
		t.Errorf("Error message should be cleared, got %v", *state.ErrorMessage)
	}
	if state.LastSyncTime == nil {
		t.Error("Last sync time was not set")
	}

	states, err := GetAllSyncStates(db)
	if err != nil {
		t.Fatalf("GetAllSyncStates failed: %v", err)
	}
	if len(states) != 1 {
		t.Errorf("Expected 1 sync state, got %d", len(states))
	}
}
