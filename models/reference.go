// ABOUTME: Static reference data for the registration form
// ABOUTME: Stage probabilities, country config, and closed option catalogs
package models

// CountryConfig carries the per-country defaults applied to a draft when the
// reseller country changes.
type CountryConfig struct {
	Currency string
	Capital  string
}

// StageOption pairs a stage value with its display label.
type StageOption struct {
	Value string
	Label string
}

// Reference is the immutable configuration the validation and codec layers
// depend on. Build it once with DefaultReference and pass it by reference.
type Reference struct {
	StageProbability map[string]int
	Stages           []StageOption
	Countries        map[string]CountryConfig
	Currencies       []string
	Industries       []string
	Solutions        []string
	SupportOptions   []string
}

// DefaultReference returns the built-in reference tables.
func DefaultReference() *Reference {
	return &Reference{
		StageProbability: map[string]int{
			StageQualified:   35,
			StageProposal:    55,
			StageNegotiation: 70,
			StageWon:         100,
			StageLost:        0,
		},
		Stages: []StageOption{
			{Value: StageQualified, Label: "Qualified"},
			{Value: StageProposal, Label: "Proposal Sent"},
			{Value: StageNegotiation, Label: "Negotiation"},
			{Value: StageWon, Label: "Closed Won"},
			{Value: StageLost, Label: "Closed Lost"},
		},
		Countries: map[string]CountryConfig{
			"Indonesia":   {Currency: "IDR", Capital: "Jakarta"},
			"Malaysia":    {Currency: "MYR", Capital: "Kuala Lumpur"},
			"Philippines": {Currency: "PHP", Capital: "Manila"},
			"Singapore":   {Currency: "SGD", Capital: "Singapore"},
		},
		Currencies: []string{"IDR", "MYR", "PHP", "SGD", "USD"},
		Industries: []string{
			"AEC",
			"Surveying & Mapping",
			"Construction",
			"Real Estate",
			"Public Safety",
			"Mining",
			"Manufacturing",
			"Media & Entertainment",
			"Education",
			"Other",
		},
		Solutions: []string{
			"Xgrids L1",
			"Xgrids L2 PRO",
			"Xgrids K1",
			"LCC Studio",
			"PORTAL",
		},
		SupportOptions: []string{
			"Pre-sales consultation",
			"Demo unit / loaner",
			"Proof of concept",
			"On-site training",
			"Pricing support",
			"Marketing materials",
		},
	}
}

// ProbabilityFor returns the default probability for a stage. Unknown stages
// map to zero.
func (r *Reference) ProbabilityFor(stage string) int {
	return r.StageProbability[stage]
}

// CountryFor looks up the config for a reseller country.
func (r *Reference) CountryFor(country string) (CountryConfig, bool) {
	cfg, ok := r.Countries[country]
	return cfg, ok
}

// ValidStage reports whether the stage is one of the defined options.
func (r *Reference) ValidStage(stage string) bool {
	_, ok := r.StageProbability[stage]
	return ok
}
