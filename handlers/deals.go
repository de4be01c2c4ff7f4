// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements register_deal, list_deals, check_duplicate, add_deal_update, and sync_deal
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
	"github.com/harperreed/dealreg/register"
	"github.com/harperreed/dealreg/sheets"
)

type DealHandlers struct {
	db    *sql.DB
	codec *register.Codec
	ref   *models.Reference
}

func NewDealHandlers(database *sql.DB) *DealHandlers {
	ref := models.DefaultReference()
	return &DealHandlers{
		db:    database,
		codec: register.NewCodec(register.NewULIDGenerator(), ref),
		ref:   ref,
	}
}

type RegisterDealInput struct {
	ResellerCountry  string `json:"reseller_country" jsonschema:"Reseller country (required): Indonesia, Malaysia, Philippines, or Singapore"`
	ResellerLocation string `json:"reseller_location,omitempty" jsonschema:"Reseller office location (defaults to the country's capital)"`
	ResellerName     string `json:"reseller_name" jsonschema:"Reseller company name (required)"`
	ResellerContact  string `json:"reseller_contact" jsonschema:"Primary contact name (required)"`
	ResellerEmail    string `json:"reseller_email" jsonschema:"Contact email (required)"`
	ResellerPhone    string `json:"reseller_phone,omitempty" jsonschema:"Contact phone"`

	CustomerName string `json:"customer_name" jsonschema:"End customer name (required)"`
	City         string `json:"city" jsonschema:"Customer city (required)"`
	Country      string `json:"country" jsonschema:"Customer country (required)"`

	Industry          string `json:"industry,omitempty" jsonschema:"Customer industry"`
	Currency          string `json:"currency,omitempty" jsonschema:"Currency code (defaults from reseller country)"`
	Value             string `json:"value" jsonschema:"Estimated deal value, thousands separators allowed (required)"`
	Solution          string `json:"solution" jsonschema:"Solution being sold (required)"`
	Stage             string `json:"stage,omitempty" jsonschema:"Sales stage: qualified, proposal, negotiation, won, lost"`
	Probability       *int   `json:"probability,omitempty" jsonschema:"Win probability override, 0-100 (defaults from stage)"`
	ExpectedCloseDate string `json:"expected_close_date" jsonschema:"Expected close date, YYYY-MM-DD, within the next 60 days (required)"`

	Supports      []string `json:"supports,omitempty" jsonschema:"Support needed from the vendor"`
	Competitors   []string `json:"competitors,omitempty" jsonschema:"Competing products in the deal"`
	Notes         string   `json:"notes,omitempty" jsonschema:"Free-form notes"`
	EvidenceLinks []string `json:"evidence_links" jsonschema:"Links to quotes, RFPs, or other evidence (required)"`

	Confidential     bool `json:"confidential,omitempty" jsonschema:"Hide the customer name from shared views"`
	RemindersOptIn   bool `json:"reminders_opt_in,omitempty" jsonschema:"Send close-date reminder emails"`
	ConfirmDuplicate bool `json:"confirm_duplicate,omitempty" jsonschema:"Proceed even if a similar deal is already registered"`
}

type DealOutput struct {
	ID                string  `json:"id"`
	SubmittedAt       string  `json:"submitted_at"`
	ResellerName      string  `json:"reseller_name"`
	CustomerName      string  `json:"customer_name"`
	CustomerLocation  string  `json:"customer_location"`
	Currency          string  `json:"currency"`
	Value             float64 `json:"value"`
	Solution          string  `json:"solution"`
	Stage             string  `json:"stage"`
	Probability       int     `json:"probability"`
	ExpectedCloseDate string  `json:"expected_close_date"`
	Status            string  `json:"status"`
	SyncedAt          string  `json:"synced_at,omitempty"`
}

func (h *DealHandlers) buildDraft(input RegisterDealInput) *models.Draft {
	draft := &models.Draft{
		ResellerName:      input.ResellerName,
		ResellerContact:   input.ResellerContact,
		ResellerEmail:     input.ResellerEmail,
		ResellerPhone:     input.ResellerPhone,
		CustomerName:      input.CustomerName,
		City:              input.City,
		Country:           input.Country,
		Industry:          input.Industry,
		ValueRaw:          input.Value,
		Solution:          input.Solution,
		ExpectedCloseDate: input.ExpectedCloseDate,
		Supports:          input.Supports,
		Competitors:       input.Competitors,
		Notes:             input.Notes,
		EvidenceLinks:     input.EvidenceLinks,
		Confidential:      input.Confidential,
		RemindersOptIn:    input.RemindersOptIn,
		Consent:           true, // registering through the tool is the consent act
	}

	register.ApplyResellerCountry(draft, h.ref, input.ResellerCountry)
	if input.ResellerLocation != "" {
		register.SetResellerLocation(draft, input.ResellerLocation)
	}
	if input.Currency != "" {
		register.SetCurrency(draft, input.Currency)
	}
	stage := input.Stage
	if stage == "" {
		stage = models.StageQualified
	}
	register.ApplyStage(draft, h.ref, stage)
	if input.Probability != nil {
		register.SetProbability(draft, *input.Probability)
	}
	return draft
}

func (h *DealHandlers) RegisterDeal(_ context.Context, request *mcp.CallToolRequest, input RegisterDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Stage != "" && !h.ref.ValidStage(input.Stage) {
		return nil, DealOutput{}, fmt.Errorf("invalid stage: %s (valid: qualified, proposal, negotiation, won, lost)", input.Stage)
	}

	draft := h.buildDraft(input)
	if errs := register.Validate(draft); len(errs) > 0 {
		return nil, DealOutput{}, errs
	}

	if !input.ConfirmDuplicate {
		existing, err := db.ListDeals(h.db, "", 1000)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("failed to list deals: %w", err)
		}
		if warning := register.CheckDuplicate(draft, existing); warning != nil {
			return nil, DealOutput{}, fmt.Errorf("%s Set confirm_duplicate to register anyway", warning)
		}
	}

	rec := h.codec.Build(draft, nil)
	if err := db.CreateDeal(h.db, rec); err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}

	return nil, dealToOutput(rec), nil
}

type ListDealsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: pending, approved, rejected, expired"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of deals to return (default 100)"`
}

type ListDealsOutput struct {
	Deals []DealOutput `json:"deals"`
	Count int          `json:"count"`
}

func (h *DealHandlers) ListDeals(_ context.Context, request *mcp.CallToolRequest, input ListDealsInput) (*mcp.CallToolResult, ListDealsOutput, error) {
	deals, err := db.ListDeals(h.db, input.Status, input.Limit)
	if err != nil {
		return nil, ListDealsOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}

	output := ListDealsOutput{Count: len(deals)}
	for i := range deals {
		output.Deals = append(output.Deals, dealToOutput(&deals[i]))
	}
	return nil, output, nil
}

type CheckDuplicateInput struct {
	CustomerName      string `json:"customer_name" jsonschema:"End customer name (required)"`
	Solution          string `json:"solution" jsonschema:"Solution being sold (required)"`
	ExpectedCloseDate string `json:"expected_close_date" jsonschema:"Expected close date, YYYY-MM-DD (required)"`
}

type CheckDuplicateOutput struct {
	Duplicate bool   `json:"duplicate"`
	DealID    string `json:"deal_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (h *DealHandlers) CheckDuplicate(_ context.Context, request *mcp.CallToolRequest, input CheckDuplicateInput) (*mcp.CallToolResult, CheckDuplicateOutput, error) {
	existing, err := db.ListDeals(h.db, "", 1000)
	if err != nil {
		return nil, CheckDuplicateOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}

	draft := &models.Draft{
		CustomerName:      input.CustomerName,
		Solution:          input.Solution,
		ExpectedCloseDate: input.ExpectedCloseDate,
	}
	warning := register.CheckDuplicate(draft, existing)
	if warning == nil {
		return nil, CheckDuplicateOutput{}, nil
	}
	return nil, CheckDuplicateOutput{
		Duplicate: true,
		DealID:    warning.ID,
		Message:   warning.String(),
	}, nil
}

type AddDealUpdateInput struct {
	DealID  string `json:"deal_id" jsonschema:"Deal ID (required)"`
	Content string `json:"content" jsonschema:"Update text (required)"`
}

type DealUpdateOutput struct {
	ID        string `json:"id"`
	DealID    string `json:"deal_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (h *DealHandlers) AddDealUpdate(_ context.Context, request *mcp.CallToolRequest, input AddDealUpdateInput) (*mcp.CallToolResult, DealUpdateOutput, error) {
	if input.DealID == "" {
		return nil, DealUpdateOutput{}, fmt.Errorf("deal_id is required")
	}
	if input.Content == "" {
		return nil, DealUpdateOutput{}, fmt.Errorf("content is required")
	}

	// Verify deal exists
	deal, err := db.GetDeal(h.db, input.DealID)
	if err != nil {
		return nil, DealUpdateOutput{}, fmt.Errorf("failed to get deal: %w", err)
	}
	if deal == nil {
		return nil, DealUpdateOutput{}, fmt.Errorf("deal not found")
	}

	update := &models.DealUpdate{
		DealID:  input.DealID,
		Content: input.Content,
	}
	if err := db.AddDealUpdate(h.db, update); err != nil {
		return nil, DealUpdateOutput{}, fmt.Errorf("failed to add update: %w", err)
	}

	return nil, DealUpdateOutput{
		ID:        update.ID.String(),
		DealID:    update.DealID,
		Content:   update.Content,
		CreatedAt: update.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

type SyncDealInput struct {
	DealID string `json:"deal_id" jsonschema:"Deal ID to push to the spreadsheet (required)"`
}

type SyncDealOutput struct {
	DealID   string `json:"deal_id"`
	SyncedAt string `json:"synced_at"`
}

func (h *DealHandlers) SyncDeal(ctx context.Context, request *mcp.CallToolRequest, input SyncDealInput) (*mcp.CallToolResult, SyncDealOutput, error) {
	if input.DealID == "" {
		return nil, SyncDealOutput{}, fmt.Errorf("deal_id is required")
	}

	gateway, err := sheets.NewClientFromEnv()
	if err != nil {
		return nil, SyncDealOutput{}, fmt.Errorf("sheets client unavailable: %w", err)
	}

	syncer := &sheets.Syncer{DB: h.db, Gateway: gateway}
	if err := syncer.PushDeal(ctx, input.DealID); err != nil {
		return nil, SyncDealOutput{}, fmt.Errorf("failed to sync deal: %w", err)
	}

	deal, err := db.GetDeal(h.db, input.DealID)
	if err != nil {
		return nil, SyncDealOutput{}, fmt.Errorf("failed to get deal: %w", err)
	}
	if deal == nil {
		return nil, SyncDealOutput{}, fmt.Errorf("deal not found")
	}
	return nil, SyncDealOutput{DealID: deal.ID, SyncedAt: deal.SyncedAt}, nil
}

func dealToOutput(rec *models.DealRecord) DealOutput {
	return DealOutput{
		ID:                rec.ID,
		SubmittedAt:       rec.SubmittedAt,
		ResellerName:      rec.ResellerName,
		CustomerName:      rec.CustomerName,
		CustomerLocation:  rec.CustomerLocation,
		Currency:          rec.Currency,
		Value:             rec.Value,
		Solution:          rec.Solution,
		Stage:             rec.Stage,
		Probability:       rec.Probability,
		ExpectedCloseDate: rec.ExpectedCloseDate,
		Status:            rec.Status,
		SyncedAt:          rec.SyncedAt,
	}
}
