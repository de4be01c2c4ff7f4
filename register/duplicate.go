// ABOUTME: Near-duplicate detection for incoming deal drafts
// ABOUTME: Flags resubmissions of the same customer and solution in a 28-day window
package register

import (
	"fmt"
	"strings"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/models"
)

// duplicateWindowDays is the half-width of the close-date window: a candidate
// matches when its expected close date is within this many days of the
// draft's, on either side, inclusive.
const duplicateWindowDays = 14

// DuplicateWarning is advisory only. It never blocks a submission.
type DuplicateWarning struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	CloseDate    string `json:"close_date"`
}

func (w *DuplicateWarning) String() string {
	return fmt.Sprintf("Possible duplicate of deal %s (%s, expected close %s).",
		w.ID, w.CustomerName, w.CloseDate)
}

// CheckDuplicate scans existing records for a likely resubmission of the
// draft. Customer name and solution compare case-insensitively after
// trimming; the first match by list order is reported. Any of the three
// inputs being empty clears the warning.
func CheckDuplicate(draft *models.Draft, existing []models.DealRecord) *DuplicateWarning {
	customer := normalize(draft.CustomerName)
	solution := normalize(draft.Solution)
	closeDate := strings.TrimSpace(draft.ExpectedCloseDate)

	if customer == "" || solution == "" || closeDate == "" {
		return nil
	}

	for i := range existing {
		rec := &existing[i]
		if normalize(rec.CustomerName) != customer {
			continue
		}
		if normalize(rec.Solution) != solution {
			continue
		}
		gap, err := dates.DaysBetween(rec.ExpectedCloseDate, closeDate)
		if err != nil {
			continue
		}
		if gap >= -duplicateWindowDays && gap <= duplicateWindowDays {
			return &DuplicateWarning{
				ID:           rec.ID,
				CustomerName: rec.CustomerName,
				CloseDate:    rec.ExpectedCloseDate,
			}
		}
	}

	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
