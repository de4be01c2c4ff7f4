// ABOUTME: Field and cross-field validation for deal drafts
// ABOUTME: Collects every violation into a field-to-reason map
package register

import (
	"strconv"
	"strings"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/models"
)

// Stable validation messages, keyed by field name in the error map.
const (
	MsgResellerName     = "Company name is required."
	MsgResellerContact  = "Primary contact name is required."
	MsgResellerEmail    = "A valid email address is required."
	MsgCustomerName     = "Customer name is required."
	MsgCustomerLocation = "Customer location is required."
	MsgCity             = "City is required."
	MsgCountry          = "Country is required."
	MsgSolution         = "Solution is required."
	MsgValue            = "Deal value must be greater than zero."
	MsgCloseDate        = "Expected close date must be within the next 60 days."
	MsgEvidence         = "Attach at least one file or add an evidence link."
	MsgConsent          = "You must accept the registration terms."
)

// Validate checks a draft against every submission rule and returns the full
// set of violations. It never mutates the draft and never short-circuits.
func Validate(draft *models.Draft) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(draft.ResellerName) == "" {
		errs["resellerName"] = MsgResellerName
	}
	if strings.TrimSpace(draft.ResellerContact) == "" {
		errs["resellerContact"] = MsgResellerContact
	}
	if !validEmail(draft.ResellerEmail) {
		errs["resellerEmail"] = MsgResellerEmail
	}
	if strings.TrimSpace(draft.CustomerName) == "" {
		errs["customerName"] = MsgCustomerName
	}
	if strings.TrimSpace(draft.CustomerLocation()) == "" {
		errs["customerLocation"] = MsgCustomerLocation
	}
	if strings.TrimSpace(draft.City) == "" {
		errs["city"] = MsgCity
	}
	if strings.TrimSpace(draft.Country) == "" {
		errs["country"] = MsgCountry
	}
	if strings.TrimSpace(draft.Solution) == "" {
		errs["solution"] = MsgSolution
	}
	if v, ok := CoerceValue(draft); !ok || v <= 0 {
		errs["value"] = MsgValue
	}
	if !dates.WithinNextSixtyDays(draft.ExpectedCloseDate) {
		errs["expectedCloseDate"] = MsgCloseDate
	}
	if draft.FileCount == 0 && len(nonEmpty(draft.EvidenceLinks)) == 0 {
		errs["evidence"] = MsgEvidence
	}
	if !draft.Consent {
		errs["consent"] = MsgConsent
	}

	return errs
}

// CoerceValue parses the deal value from the raw form input, tolerating
// thousands separators. Falls back to the already-numeric Value field when
// no raw input was captured.
func CoerceValue(draft *models.Draft) (float64, bool) {
	if draft.ValueRaw == "" {
		return draft.Value, true
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(draft.ValueRaw), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// validEmail checks the local@domain.tld shape: no whitespace in either part,
// exactly one @, and at least one dot after the @.
func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	at := strings.Count(email, "@")
	if at != 1 {
		return false
	}
	parts := strings.SplitN(email, "@", 2)
	local, domain := parts[0], parts[1]
	if local == "" || domain == "" {
		return false
	}
	if strings.ContainsAny(local, " \t") || strings.ContainsAny(domain, " \t") {
		return false
	}
	return strings.Contains(domain, ".")
}

func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
