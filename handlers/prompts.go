// ABOUTME: MCP prompt handlers for reusable deal review templates
// ABOUTME: Provides standardized prompts for pipeline and deal analysis
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "pipeline-review":
		return h.getPipelineReviewPrompt(arguments)
	case "deal-summary":
		return h.getDealSummaryPrompt(arguments)
	case "closing-soon":
		return h.getClosingSoonPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getPipelineReviewPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	deals, err := db.ListDeals(h.db, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	// Calculate pipeline metrics
	stageCount := make(map[string]int)
	stageValue := make(map[string]float64)
	totalValue := float64(0)

	for _, deal := range deals {
		stage := deal.Stage
		if stage == "" {
			stage = "unknown"
		}
		stageCount[stage]++
		stageValue[stage] += deal.Value
		totalValue += deal.Value
	}

	// Build the prompt
	var promptText strings.Builder
	promptText.WriteString("Please analyze the current registration pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Deals: %d\n", len(deals)))
	promptText.WriteString(fmt.Sprintf("Total Value: %.0f\n\n", totalValue))
	promptText.WriteString("Pipeline by Stage:\n")
	for stage, count := range stageCount {
		promptText.WriteString(fmt.Sprintf("  - %s: %d deals, %.0f\n", stage, count, stageValue[stage]))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health and distribution")
	promptText.WriteString("\n2. Recommendations for deals that may need attention")
	promptText.WriteString("\n3. Suggestions for improving conversion rates")

	return &mcp.GetPromptResult{
		Description: "Deal pipeline analysis",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getDealSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	dealID, ok := args["deal_id"]
	if !ok {
		return nil, fmt.Errorf("deal_id is required")
	}

	deal, err := db.GetDeal(h.db, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal: %w", err)
	}
	if deal == nil {
		return nil, fmt.Errorf("deal not found: %s", dealID)
	}

	// Build the prompt
	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this registered deal:\n\n")
	promptText.WriteString(fmt.Sprintf("Customer: %s (%s)\n", deal.CustomerName, deal.CustomerLocation))
	promptText.WriteString(fmt.Sprintf("Reseller: %s, %s\n", deal.ResellerName, deal.ResellerLocation))
	promptText.WriteString(fmt.Sprintf("Solution: %s\n", deal.Solution))
	promptText.WriteString(fmt.Sprintf("Value: %s %.0f\n", deal.Currency, deal.Value))
	promptText.WriteString(fmt.Sprintf("Stage: %s (%d%% probability)\n", deal.Stage, deal.Probability))
	promptText.WriteString(fmt.Sprintf("Expected Close: %s\n", deal.ExpectedCloseDate))
	if deal.Industry != "" {
		promptText.WriteString(fmt.Sprintf("Industry: %s\n", deal.Industry))
	}
	if len(deal.Competitors) > 0 {
		promptText.WriteString(fmt.Sprintf("Competitors: %s\n", strings.Join(deal.Competitors, ", ")))
	}
	if deal.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", deal.Notes))
	}

	if len(deal.Updates) > 0 {
		promptText.WriteString(fmt.Sprintf("\nProgress updates: %d entries\n", len(deal.Updates)))
		for _, update := range deal.Updates {
			promptText.WriteString(fmt.Sprintf("  - [%s] %s\n", update.CreatedAt.Format("2006-01-02"), update.Content))
		}
	}

	promptText.WriteString("\nPlease analyze this deal and provide:")
	promptText.WriteString("\n1. A brief assessment of deal health")
	promptText.WriteString("\n2. Recommendations for next steps")
	promptText.WriteString("\n3. Any risks suggested by the progress history")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Summary for deal: %s", deal.CustomerName),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getClosingSoonPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	deals, err := db.ListDeals(h.db, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Deals approaching or past their expected close date:\n\n")

	count := 0
	for _, deal := range deals {
		if deal.Stage == "won" || deal.Stage == "lost" {
			continue
		}
		days := dates.DaysUntil(deal.ExpectedCloseDate)
		if days < 0 {
			promptText.WriteString(fmt.Sprintf("- %s / %s: %d days overdue\n", deal.CustomerName, deal.Solution, -days))
			count++
		} else if days <= 14 {
			promptText.WriteString(fmt.Sprintf("- %s / %s: closes in %d days\n", deal.CustomerName, deal.Solution, days))
			count++
		}
	}

	if count == 0 {
		promptText.WriteString("No deals are closing within the next two weeks.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which deals need attention first")
	promptText.WriteString("\n2. Suggest follow-up actions for each")
	promptText.WriteString("\n3. Flag any overdue deals that should be re-staged")

	return &mcp.GetPromptResult{
		Description: "Deals approaching close",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
