// ABOUTME: Tests for derived-field rules
// ABOUTME: Probability/stage and currency/country follow-then-override behavior
package register

import (
	"testing"

	"github.com/harperreed/dealreg/models"
)

func TestStageDrivesProbability(t *testing.T) {
	ref := models.DefaultReference()
	draft := &models.Draft{}

	ApplyStage(draft, ref, models.StageQualified)
	if draft.Probability != 35 {
		t.Errorf("Expected probability 35 for qualified, got %d", draft.Probability)
	}

	ApplyStage(draft, ref, models.StageNegotiation)
	if draft.Probability != 70 {
		t.Errorf("Expected probability 70 for negotiation, got %d", draft.Probability)
	}
}

func TestManualProbabilityWins(t *testing.T) {
	ref := models.DefaultReference()
	draft := &models.Draft{}

	ApplyStage(draft, ref, models.StageProposal)
	SetProbability(draft, 80)
	ApplyStage(draft, ref, models.StageWon)

	if draft.Probability != 80 {
		t.Errorf("Manual probability should survive stage change, got %d", draft.Probability)
	}
	if draft.Stage != models.StageWon {
		t.Errorf("Stage should still change, got %s", draft.Stage)
	}
}

func TestCountryDrivesCurrencyAndLocation(t *testing.T) {
	ref := models.DefaultReference()
	draft := &models.Draft{}

	ApplyResellerCountry(draft, ref, "Malaysia")
	if draft.Currency != "MYR" {
		t.Errorf("Expected MYR, got %s", draft.Currency)
	}
	if draft.ResellerLocation != "Kuala Lumpur" {
		t.Errorf("Expected Kuala Lumpur, got %s", draft.ResellerLocation)
	}

	ApplyResellerCountry(draft, ref, "Philippines")
	if draft.Currency != "PHP" || draft.ResellerLocation != "Manila" {
		t.Errorf("Country change should re-apply lookup, got %s / %s", draft.Currency, draft.ResellerLocation)
	}
}

func TestManualCurrencyAndLocationWin(t *testing.T) {
	ref := models.DefaultReference()
	draft := &models.Draft{}

	ApplyResellerCountry(draft, ref, "Indonesia")
	SetCurrency(draft, "USD")
	SetResellerLocation(draft, "Surabaya")

	ApplyResellerCountry(draft, ref, "Singapore")
	if draft.Currency != "USD" {
		t.Errorf("Manual currency should survive country change, got %s", draft.Currency)
	}
	if draft.ResellerLocation != "Surabaya" {
		t.Errorf("Manual location should survive country change, got %s", draft.ResellerLocation)
	}
}

func TestUnknownCountryLeavesDerivedFields(t *testing.T) {
	ref := models.DefaultReference()
	draft := &models.Draft{Currency: "SGD", ResellerLocation: "Singapore"}

	ApplyResellerCountry(draft, ref, "Atlantis")
	if draft.Currency != "SGD" || draft.ResellerLocation != "Singapore" {
		t.Errorf("Unknown country should not clobber derived fields")
	}
}

func TestCustomerLocationComposition(t *testing.T) {
	draft := &models.Draft{City: "Cebu", Country: "Philippines"}
	if got := draft.CustomerLocation(); got != "Cebu, Philippines" {
		t.Errorf("Expected 'Cebu, Philippines', got %q", got)
	}

	draft.Country = ""
	if got := draft.CustomerLocation(); got != "Cebu" {
		t.Errorf("Expected 'Cebu', got %q", got)
	}

	draft.City = ""
	if got := draft.CustomerLocation(); got != "" {
		t.Errorf("Expected empty location, got %q", got)
	}
}
