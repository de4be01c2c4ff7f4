// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server exposing deal registration tools
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/dealreg/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting Deal Registration MCP Server...")

	// Create handlers
	dealHandlers := handlers.NewDealHandlers(db)
	queryHandlers := handlers.NewQueryHandlers(db)
	resourceHandlers := handlers.NewResourceHandlers(db)
	promptHandlers := handlers.NewPromptHandlers(db)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dealreg",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "register_deal",
		Description: "Register a new reseller deal with validation and duplicate detection",
	}, dealHandlers.RegisterDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_deals",
		Description: "List registered deals, optionally filtered by status",
	}, dealHandlers.ListDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_duplicate",
		Description: "Check whether a customer/solution/close-date combination is already registered",
	}, dealHandlers.CheckDuplicate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_deal_update",
		Description: "Append a progress update to a registered deal",
	}, dealHandlers.AddDealUpdate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_deal",
		Description: "Push a registered deal to the shared spreadsheet",
	}, dealHandlers.SyncDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_deals",
		Description: "Filter registered deals by stage, status, country, solution, or value",
	}, queryHandlers.QueryDeals)

	// Register resources
	server.AddResource(&mcp.Resource{
		URI:      "dealreg://deals",
		Name:     "deals",
		MIMEType: "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:      "dealreg://pipeline",
		Name:     "pipeline",
		MIMEType: "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:      "dealreg://sync",
		Name:     "sync",
		MIMEType: "application/json",
	}, resourceHandlers.ReadResource)

	// Register prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-review",
		Description: "Analyze the registration pipeline by stage",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "deal-summary",
		Description: "Summarize one registered deal with its progress history",
		Arguments: []*mcp.PromptArgument{
			{Name: "deal_id", Description: "Deal record ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "closing-soon",
		Description: "List open deals near or past their expected close date",
	}, promptHandlers.GetPrompt)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
