// ABOUTME: Pipeline graph generation via graphviz
// ABOUTME: Renders deals grouped by stage as DOT for the TUI and CLI
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GeneratePipelineGraph renders every registered deal attached to its stage,
// with the stages chained in pipeline order.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Deal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	stages := []string{
		models.StageQualified,
		models.StageProposal,
		models.StageNegotiation,
		models.StageWon,
		models.StageLost,
	}

	stageNodes := make(map[string]*cgraph.Node)
	for _, stage := range stages {
		node, err := graph.CreateNodeByName(fmt.Sprintf("stage_%s", stage))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(stage)
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		stageNodes[stage] = node
	}

	// Chain the open stages in order; won and lost both hang off negotiation.
	for i := 0; i < 2; i++ {
		edge, err := graph.CreateEdgeByName("advance", stageNodes[stages[i]], stageNodes[stages[i+1]])
		if err != nil {
			return "", fmt.Errorf("failed to create stage edge: %w", err)
		}
		edge.SetStyle("bold")
	}
	for _, terminal := range []string{models.StageWon, models.StageLost} {
		edge, err := graph.CreateEdgeByName("close", stageNodes[models.StageNegotiation], stageNodes[terminal])
		if err != nil {
			return "", fmt.Errorf("failed to create stage edge: %w", err)
		}
		edge.SetStyle("bold")
	}

	deals, err := db.ListDeals(g.db, "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch deals: %w", err)
	}

	for _, deal := range deals {
		node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%s", deal.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create deal node: %w", err)
		}

		customer := deal.CustomerName
		if deal.Confidential {
			customer = "(confidential)"
		}
		node.SetLabel(fmt.Sprintf("%s\n%s %s %.0fK\n%d%%",
			customer, deal.Solution, deal.Currency, deal.Value/1000, deal.Probability))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		stageNode, ok := stageNodes[deal.Stage]
		if !ok {
			continue
		}
		edge, err := graph.CreateEdgeByName("in_stage", stageNode, node)
		if err != nil {
			return "", fmt.Errorf("failed to create deal edge: %w", err)
		}
		edge.SetStyle("dotted")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
