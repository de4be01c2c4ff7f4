// ABOUTME: Tests for dashboard statistics
// ABOUTME: Covers stage aggregation, weighted values, and attention lists
package viz

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
)

func seedDeal(t *testing.T, conn *sql.DB, id, stage string, value float64, probability, closeInDays int) {
	t.Helper()

	closeDate, err := dates.AddDays(dates.Today(), closeInDays)
	if err != nil {
		t.Fatalf("AddDays failed: %v", err)
	}

	rec := &models.DealRecord{
		ID:                id,
		SubmittedAt:       dates.Today(),
		ResellerCountry:   "Philippines",
		ResellerName:      "Manila Geomatics",
		ResellerContact:   "Jose Reyes",
		ResellerEmail:     "jose@manilageo.example.com",
		CustomerName:      "Customer " + id,
		CustomerLocation:  "Manila, Philippines",
		City:              "Manila",
		Country:           "Philippines",
		Currency:          "PHP",
		Value:             value,
		Solution:          "LCC Studio",
		Stage:             stage,
		Probability:       probability,
		ExpectedCloseDate: closeDate,
		Status:            models.StatusPending,
	}
	if err := db.CreateDeal(conn, rec); err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
}

func TestGenerateDashboardStats(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer conn.Close()
	if err := db.InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	seedDeal(t, conn, "d1", models.StageProposal, 100000, 55, 30)
	seedDeal(t, conn, "d2", models.StageProposal, 50000, 55, 7)
	seedDeal(t, conn, "d3", models.StageWon, 80000, 100, 5)

	stats, err := GenerateDashboardStats(conn)
	if err != nil {
		t.Fatalf("GenerateDashboardStats failed: %v", err)
	}

	if stats.TotalDeals != 3 {
		t.Errorf("Expected 3 deals, got %d", stats.TotalDeals)
	}

	proposal := stats.PipelineByStage[models.StageProposal]
	if proposal.Count != 2 {
		t.Errorf("Expected 2 proposal deals, got %d", proposal.Count)
	}
	if proposal.Value != 150000 {
		t.Errorf("Expected proposal value 150000, got %v", proposal.Value)
	}
	if proposal.Weighted != 82500 {
		t.Errorf("Expected weighted 82500, got %v", proposal.Weighted)
	}

	// d2 closes within 14 days; won deals never need attention.
	if len(stats.ClosingSoon) != 1 || stats.ClosingSoon[0].ID != "d2" {
		t.Errorf("Expected d2 in ClosingSoon, got %+v", stats.ClosingSoon)
	}

	if stats.UnsyncedDeals != 3 {
		t.Errorf("Expected 3 unsynced deals, got %d", stats.UnsyncedDeals)
	}

	out := RenderDashboard(stats)
	if !strings.Contains(out, "PIPELINE OVERVIEW") {
		t.Error("Dashboard header missing")
	}
	if !strings.Contains(out, "proposal") {
		t.Error("Proposal stage missing from render")
	}
}
