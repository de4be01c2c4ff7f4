// ABOUTME: Derived-field rules for the registration form
// ABOUTME: Probability follows stage and currency/location follow country until hand-edited
package register

import (
	"github.com/harperreed/dealreg/models"
)

// ApplyStage sets the sales stage and recomputes probability from the
// reference map, unless the user has hand-edited probability this session.
func ApplyStage(draft *models.Draft, ref *models.Reference, stage string) {
	draft.Stage = stage
	if !draft.ProbabilityTouched {
		draft.Probability = ref.ProbabilityFor(stage)
	}
}

// SetProbability records a manual probability edit. From here on the field
// stops following stage selection (last write wins within the session).
func SetProbability(draft *models.Draft, probability int) {
	draft.Probability = probability
	draft.ProbabilityTouched = true
}

// ApplyResellerCountry sets the reseller country and re-applies the
// country's currency and capital city to the untouched derived fields.
func ApplyResellerCountry(draft *models.Draft, ref *models.Reference, country string) {
	draft.ResellerCountry = country
	cfg, ok := ref.CountryFor(country)
	if !ok {
		return
	}
	if !draft.CurrencyTouched {
		draft.Currency = cfg.Currency
	}
	if !draft.LocationTouched {
		draft.ResellerLocation = cfg.Capital
	}
}

// SetCurrency records a manual currency edit.
func SetCurrency(draft *models.Draft, currency string) {
	draft.Currency = currency
	draft.CurrencyTouched = true
}

// SetResellerLocation records a manual reseller location edit.
func SetResellerLocation(draft *models.Draft, location string) {
	draft.ResellerLocation = location
	draft.LocationTouched = true
}
