// ABOUTME: Flexible deal query tool handler
// ABOUTME: Filters registered deals by stage, country, solution, and value
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
)

type QueryHandlers struct {
	db  *sql.DB
	ref *models.Reference
}

func NewQueryHandlers(database *sql.DB) *QueryHandlers {
	return &QueryHandlers{db: database, ref: models.DefaultReference()}
}

type QueryDealsInput struct {
	Stage    string  `json:"stage,omitempty" jsonschema:"Filter by stage (qualified, proposal, negotiation, won, lost)"`
	Status   string  `json:"status,omitempty" jsonschema:"Filter by status (pending, approved, rejected, expired)"`
	Country  string  `json:"country,omitempty" jsonschema:"Filter by customer country"`
	Solution string  `json:"solution,omitempty" jsonschema:"Filter by solution name substring"`
	MinValue float64 `json:"min_value,omitempty" jsonschema:"Minimum deal value"`
	MaxValue float64 `json:"max_value,omitempty" jsonschema:"Maximum deal value"`
	Unsynced bool    `json:"unsynced,omitempty" jsonschema:"Only deals not yet pushed to the spreadsheet"`
	Limit    int     `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type QueryDealsOutput struct {
	Results []DealOutput `json:"results"`
	Count   int          `json:"count"`
}

// QueryDeals filters the registry across several fields at once. Status is
// pushed down to the database; the remaining filters are applied in memory.
func (h *QueryHandlers) QueryDeals(ctx context.Context, req *mcp.CallToolRequest, input QueryDealsInput) (*mcp.CallToolResult, QueryDealsOutput, error) {
	if input.Limit == 0 {
		input.Limit = 10
	}
	if input.Stage != "" && !h.ref.ValidStage(input.Stage) {
		return nil, QueryDealsOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
	}

	deals, err := db.ListDeals(h.db, input.Status, 10000)
	if err != nil {
		return nil, QueryDealsOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}

	var results []DealOutput
	for i := range deals {
		deal := &deals[i]
		if !matchesQuery(deal, &input) {
			continue
		}
		results = append(results, dealToOutput(deal))
		if len(results) >= input.Limit {
			break
		}
	}

	return nil, QueryDealsOutput{Results: results, Count: len(results)}, nil
}

func matchesQuery(deal *models.DealRecord, input *QueryDealsInput) bool {
	if input.Stage != "" && deal.Stage != input.Stage {
		return false
	}
	if input.Country != "" && !strings.EqualFold(deal.Country, input.Country) {
		return false
	}
	if input.Solution != "" && !strings.Contains(strings.ToLower(deal.Solution), strings.ToLower(input.Solution)) {
		return false
	}
	if input.MinValue > 0 && deal.Value < input.MinValue {
		return false
	}
	if input.MaxValue > 0 && deal.Value > input.MaxValue {
		return false
	}
	if input.Unsynced && deal.SyncedAt != "" {
		return false
	}
	return true
}
