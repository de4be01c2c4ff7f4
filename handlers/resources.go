// ABOUTME: MCP resource handlers for exposing registration data
// ABOUTME: Provides read-only access to deals, pipeline, and sync state via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/dealreg/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	// Parse the URI
	if !strings.HasPrefix(uri, "dealreg://") {
		return nil, fmt.Errorf("invalid URI scheme: expected dealreg://")
	}

	path := strings.TrimPrefix(uri, "dealreg://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "deals":
		if len(parts) == 1 {
			return h.readAllDeals()
		}
		return h.readDeal(parts[1])

	case "pipeline":
		return h.readPipeline()

	case "sync":
		return h.readSyncState()

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllDeals() (*mcp.ReadResourceResult, error) {
	deals, err := db.ListDeals(h.db, "", 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	data, err := json.MarshalIndent(deals, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deals: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "dealreg://deals",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readDeal(id string) (*mcp.ReadResourceResult, error) {
	deal, err := db.GetDeal(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal: %w", err)
	}
	if deal == nil {
		return nil, fmt.Errorf("deal not found: %s", id)
	}

	data, err := json.MarshalIndent(deal, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deal: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      fmt.Sprintf("dealreg://deals/%s", id),
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readPipeline() (*mcp.ReadResourceResult, error) {
	allDeals, err := db.ListDeals(h.db, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	// Group by stage and calculate totals
	pipeline := make(map[string]struct {
		Count    int     `json:"count"`
		Value    float64 `json:"total_value"`
		Weighted float64 `json:"weighted_value"`
	})

	for _, deal := range allDeals {
		stage := deal.Stage
		if stage == "" {
			stage = "unknown"
		}
		p := pipeline[stage]
		p.Count++
		p.Value += deal.Value
		p.Weighted += deal.Value * float64(deal.Probability) / 100
		pipeline[stage] = p
	}

	data, err := json.MarshalIndent(pipeline, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pipeline: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "dealreg://pipeline",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readSyncState() (*mcp.ReadResourceResult, error) {
	states, err := db.GetAllSyncStates(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sync states: %w", err)
	}

	unsynced, err := db.UnsyncedDeals(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sync backlog: %w", err)
	}

	payload := struct {
		States  interface{} `json:"states"`
		Backlog int         `json:"backlog"`
	}{
		States:  states,
		Backlog: len(unsynced),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync state: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "dealreg://sync",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
