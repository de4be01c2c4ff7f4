// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII pipeline overview for the deal pipeline
package viz

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
)

type DashboardStats struct {
	// Pipeline overview
	PipelineByStage map[string]PipelineStageStats

	// Overall stats
	TotalDeals    int
	PendingDeals  int
	UnsyncedDeals int

	// Needs attention
	ClosingSoon []ClosingDeal
	Overdue     []ClosingDeal
}

type PipelineStageStats struct {
	Stage    string
	Count    int
	Value    float64
	Weighted float64 // value scaled by win probability
}

type ClosingDeal struct {
	ID           string
	CustomerName string
	Solution     string
	CloseDate    string
	DaysUntil    int
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		PipelineByStage: make(map[string]PipelineStageStats),
	}

	deals, err := db.ListDeals(database, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	for _, deal := range deals {
		stage := deal.Stage
		if stage == "" {
			stage = "unknown"
		}

		pstats := stats.PipelineByStage[stage]
		pstats.Stage = stage
		pstats.Count++
		pstats.Value += deal.Value
		pstats.Weighted += deal.Value * float64(deal.Probability) / 100
		stats.PipelineByStage[stage] = pstats

		if deal.Status == models.StatusPending {
			stats.PendingDeals++
		}
		if deal.SyncedAt == "" {
			stats.UnsyncedDeals++
		}

		// Open deals near or past their close date need a nudge.
		if deal.Stage == models.StageWon || deal.Stage == models.StageLost {
			continue
		}
		days := dates.DaysUntil(deal.ExpectedCloseDate)
		closing := ClosingDeal{
			ID:           deal.ID,
			CustomerName: deal.CustomerName,
			Solution:     deal.Solution,
			CloseDate:    deal.ExpectedCloseDate,
			DaysUntil:    days,
		}
		switch {
		case deal.ExpectedCloseDate == "":
		case days < 0:
			stats.Overdue = append(stats.Overdue, closing)
		case days <= 14:
			stats.ClosingSoon = append(stats.ClosingSoon, closing)
		}
	}

	stats.TotalDeals = len(deals)
	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  DEAL REGISTRATION DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Pipeline overview
	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	// Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  💼 %d deals  ⏳ %d pending review  📤 %d awaiting sync\n\n",
		stats.TotalDeals, stats.PendingDeals, stats.UnsyncedDeals))

	// Needs attention
	if len(stats.ClosingSoon) > 0 || len(stats.Overdue) > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		for _, d := range stats.Overdue {
			out.WriteString(fmt.Sprintf("  ⚠️  %s (%s) - close date %s passed\n",
				d.CustomerName, d.Solution, d.CloseDate))
		}
		for _, d := range stats.ClosingSoon {
			out.WriteString(fmt.Sprintf("  ⏰ %s (%s) - closes in %d days\n",
				d.CustomerName, d.Solution, d.DaysUntil))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline map[string]PipelineStageStats) {
	// Define stage order
	stages := []string{
		models.StageQualified,
		models.StageProposal,
		models.StageNegotiation,
		models.StageWon,
		models.StageLost,
	}

	// Find max count for scaling
	maxCount := 0
	for _, pstats := range pipeline {
		if pstats.Count > maxCount {
			maxCount = pstats.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Render each stage
	for _, stage := range stages {
		pstats, exists := pipeline[stage]
		if !exists {
			continue
		}

		// Calculate bar length (0-10 blocks)
		barLength := (pstats.Count * 10) / maxCount

		// Build bar
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		valueK := pstats.Value / 1000
		weightedK := pstats.Weighted / 1000

		out.WriteString(fmt.Sprintf("  %-12s %s  %2d (%.0fK, weighted %.0fK)\n",
			stage, bar, pstats.Count, valueK, weightedK))
	}
}
