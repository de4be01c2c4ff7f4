// ABOUTME: CSV export of the deal list for the admin surface
// ABOUTME: Fixed column order with newline flattening and quote escaping
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harperreed/dealreg/models"
)

// Columns is the fixed, ordered header for exported deal lists.
var Columns = []string{
	"id", "submittedAt", "resellerCountry", "resellerLocation", "resellerName",
	"resellerContact", "resellerEmail", "resellerPhone", "customerName",
	"customerLocation", "city", "country", "lat", "lng", "industry", "currency",
	"value", "solution", "stage", "probability", "expectedCloseDate", "status",
	"lockExpiry", "syncedAt", "confidential", "remindersOptIn", "supports",
	"competitors", "notes", "evidenceLinks", "updates",
}

// WriteCSV writes the header row plus one row per record.
func WriteCSV(w io.Writer, records []models.DealRecord) error {
	if _, err := io.WriteString(w, joinRow(Columns)); err != nil {
		return err
	}
	for i := range records {
		if _, err := io.WriteString(w, joinRow(Row(&records[i]))); err != nil {
			return err
		}
	}
	return nil
}

// Row renders one record into the fixed column order.
func Row(rec *models.DealRecord) []string {
	var updates []string
	for _, u := range rec.Updates {
		updates = append(updates, fmt.Sprintf("%s: %s", u.CreatedAt.Format("2006-01-02"), u.Content))
	}

	return []string{
		rec.ID,
		rec.SubmittedAt,
		rec.ResellerCountry,
		rec.ResellerLocation,
		rec.ResellerName,
		rec.ResellerContact,
		rec.ResellerEmail,
		rec.ResellerPhone,
		rec.CustomerName,
		rec.CustomerLocation,
		rec.City,
		rec.Country,
		floatField(rec.Lat),
		floatField(rec.Lng),
		rec.Industry,
		rec.Currency,
		strconv.FormatFloat(rec.Value, 'f', -1, 64),
		rec.Solution,
		rec.Stage,
		strconv.Itoa(rec.Probability),
		rec.ExpectedCloseDate,
		rec.Status,
		rec.LockExpiry,
		rec.SyncedAt,
		strconv.FormatBool(rec.Confidential),
		strconv.FormatBool(rec.RemindersOptIn),
		strings.Join(rec.Supports, "; "),
		strings.Join(rec.Competitors, "; "),
		rec.Notes,
		strings.Join(rec.EvidenceLinks, "; "),
		strings.Join(updates, "; "),
	}
}

// EscapeField flattens newlines to a single space, doubles any double
// quotes, and quote-wraps fields containing quotes or commas.
func EscapeField(field string) string {
	field = strings.ReplaceAll(field, "\r\n", " ")
	field = strings.ReplaceAll(field, "\n", " ")
	field = strings.ReplaceAll(field, "\r", " ")

	if strings.ContainsAny(field, `",`) {
		field = strings.ReplaceAll(field, `"`, `""`)
		return `"` + field + `"`
	}
	return field
}

func joinRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",") + "\n"
}

func floatField(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
