// ABOUTME: Query tool test suite
// ABOUTME: Tests the query_deals tool filters against a seeded registry
package handlers

import (
	"context"
	"database/sql"
	"testing"
)

func seedRegistry(t *testing.T, database *sql.DB) {
	t.Helper()

	handler := NewDealHandlers(database)

	a := validInput(t)
	a.CustomerName = "Sarawak Energy"
	a.Solution = "Xgrids K1"
	a.Value = "120,000"
	a.Stage = "proposal"

	b := validInput(t)
	b.CustomerName = "Manila Water"
	b.Country = "Philippines"
	b.City = "Quezon City"
	b.Solution = "Xgrids L2 PRO"
	b.Value = "48,500"
	b.Stage = "negotiation"

	c := validInput(t)
	c.CustomerName = "Jakarta Port Services"
	c.Country = "Indonesia"
	c.City = "Jakarta"
	c.Solution = "Xgrids PortalCam"
	c.Value = "300,000"
	c.Stage = "qualified"

	for _, input := range []RegisterDealInput{a, b, c} {
		if _, _, err := handler.RegisterDeal(context.Background(), nil, input); err != nil {
			t.Fatalf("RegisterDeal failed for %s: %v", input.CustomerName, err)
		}
	}
}

func TestQueryDealsByStage(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	seedRegistry(t, database)

	handler := NewQueryHandlers(database)

	_, output, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{Stage: "negotiation"})
	if err != nil {
		t.Fatalf("QueryDeals failed: %v", err)
	}

	if output.Count != 1 {
		t.Fatalf("Expected 1 result, got %d", output.Count)
	}
	if output.Results[0].CustomerName != "Manila Water" {
		t.Errorf("Expected Manila Water, got %s", output.Results[0].CustomerName)
	}
}

func TestQueryDealsBySolutionSubstring(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	seedRegistry(t, database)

	handler := NewQueryHandlers(database)

	_, output, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{Solution: "l2 pro"})
	if err != nil {
		t.Fatalf("QueryDeals failed: %v", err)
	}

	if output.Count != 1 {
		t.Fatalf("Expected 1 result, got %d", output.Count)
	}
	if output.Results[0].Solution != "Xgrids L2 PRO" {
		t.Errorf("Solution match should be case-insensitive, got %s", output.Results[0].Solution)
	}
}

func TestQueryDealsByValueRange(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	seedRegistry(t, database)

	handler := NewQueryHandlers(database)

	_, output, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{MinValue: 100000, MaxValue: 200000})
	if err != nil {
		t.Fatalf("QueryDeals failed: %v", err)
	}

	if output.Count != 1 {
		t.Fatalf("Expected 1 result, got %d", output.Count)
	}
	if output.Results[0].Value != 120000 {
		t.Errorf("Expected value 120000, got %v", output.Results[0].Value)
	}
}

func TestQueryDealsByCountry(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	seedRegistry(t, database)

	handler := NewQueryHandlers(database)

	_, output, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{Country: "indonesia"})
	if err != nil {
		t.Fatalf("QueryDeals failed: %v", err)
	}

	if output.Count != 1 {
		t.Fatalf("Expected 1 result, got %d", output.Count)
	}
	if output.Results[0].CustomerName != "Jakarta Port Services" {
		t.Errorf("Expected Jakarta Port Services, got %s", output.Results[0].CustomerName)
	}
}

func TestQueryDealsUnsynced(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	seedRegistry(t, database)

	handler := NewQueryHandlers(database)

	_, output, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{Unsynced: true})
	if err != nil {
		t.Fatalf("QueryDeals failed: %v", err)
	}

	// Nothing has been pushed yet, so every deal is in the backlog
	if output.Count != 3 {
		t.Errorf("Expected 3 unsynced deals, got %d", output.Count)
	}
}

func TestQueryDealsRejectsInvalidStage(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewQueryHandlers(database)

	_, _, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{Stage: "prospecting"})
	if err == nil {
		t.Error("Expected error for unknown stage")
	}
}

func TestQueryDealsLimit(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	seedRegistry(t, database)

	handler := NewQueryHandlers(database)

	_, output, err := handler.QueryDeals(context.Background(), nil, QueryDealsInput{Limit: 2})
	if err != nil {
		t.Fatalf("QueryDeals failed: %v", err)
	}

	if output.Count != 2 {
		t.Errorf("Expected limit to cap results at 2, got %d", output.Count)
	}
}
