// ABOUTME: Row codec between deal records and spreadsheet cell values
// ABOUTME: Shares the export column order so the sheet matches CSV output
package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/dealreg/export"
	"github.com/harperreed/dealreg/models"
)

// HeaderRow is the sheet header: the export column order plus a trailing
// column for Drive links to uploaded attachments.
func HeaderRow() []interface{} {
	row := make([]interface{}, 0, len(export.Columns)+1)
	for _, c := range export.Columns {
		row = append(row, c)
	}
	return append(row, "attachmentLinks")
}

// encodeRow renders a record into one sheet row. attachmentLinks are the
// Drive URLs produced by uploading the record's attachments.
func encodeRow(rec *models.DealRecord, attachmentLinks []string) []interface{} {
	fields := export.Row(rec)
	row := make([]interface{}, 0, len(fields)+1)
	for _, f := range fields {
		row = append(row, f)
	}
	return append(row, strings.Join(attachmentLinks, "; "))
}

// decodeRow parses a sheet row back into a record. Rows written by other
// tools may be ragged, so missing trailing cells read as empty.
func decodeRow(row []interface{}) (models.DealRecord, error) {
	cell := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}

	rec := models.DealRecord{
		ID:                cell(0),
		SubmittedAt:       cell(1),
		ResellerCountry:   cell(2),
		ResellerLocation:  cell(3),
		ResellerName:      cell(4),
		ResellerContact:   cell(5),
		ResellerEmail:     cell(6),
		ResellerPhone:     cell(7),
		CustomerName:      cell(8),
		CustomerLocation:  cell(9),
		City:              cell(10),
		Country:           cell(11),
		Industry:          cell(14),
		Currency:          cell(15),
		Solution:          cell(17),
		Stage:             cell(18),
		ExpectedCloseDate: cell(20),
		Status:            cell(21),
		LockExpiry:        cell(22),
		SyncedAt:          cell(23),
		Notes:             cell(28),
	}
	if rec.ID == "" {
		return rec, fmt.Errorf("row has no deal ID")
	}

	rec.Lat = parseCoord(cell(12))
	rec.Lng = parseCoord(cell(13))

	if v := cell(16); v != "" {
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return rec, fmt.Errorf("bad value for deal %s: %w", rec.ID, err)
		}
		rec.Value = value
	}
	if p := cell(19); p != "" {
		prob, err := strconv.Atoi(p)
		if err != nil {
			return rec, fmt.Errorf("bad probability for deal %s: %w", rec.ID, err)
		}
		rec.Probability = prob
	}

	rec.Confidential = cell(24) == "true"
	rec.RemindersOptIn = cell(25) == "true"
	rec.Supports = splitList(cell(26))
	rec.Competitors = splitList(cell(27))
	rec.EvidenceLinks = splitList(cell(29))
	rec.Updates = parseUpdates(rec.ID, cell(30))

	return rec, nil
}

func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "; ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseUpdates reverses the "2006-01-02: content" rendering used by the
// exporter. Entries without a parsable date prefix keep their full text.
func parseUpdates(dealID, s string) []models.DealUpdate {
	if s == "" {
		return nil
	}
	var updates []models.DealUpdate
	for _, entry := range strings.Split(s, "; ") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		u := models.DealUpdate{DealID: dealID, Content: entry}
		if date, rest, ok := strings.Cut(entry, ": "); ok {
			if t, err := time.ParseInLocation("2006-01-02", date, time.Local); err == nil {
				u.CreatedAt = t
				u.Content = rest
			}
		}
		updates = append(updates, u)
	}
	return updates
}
