// ABOUTME: Google Sheets implementation of the deal sync gateway
// ABOUTME: Appends deal rows and uploads attachments to a Drive folder
package sheets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/harperreed/dealreg/models"
)

const sheetName = "Deals"

// Client pushes deals to a Google Sheet and reads them back. It satisfies
// Gateway; failures surface in SubmitResult and are never fatal to callers.
type Client struct {
	sheets        *sheets.Service
	drive         *drive.Service
	spreadsheetID string
	folderID      string
}

// NewClient builds a gateway against the given spreadsheet. folderID is the
// Drive folder receiving attachment uploads; empty means uploads land in the
// Drive root.
func NewClient(sheetsService *sheets.Service, driveService *drive.Service, spreadsheetID string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID cannot be empty")
	}
	return &Client{
		sheets:        sheetsService,
		drive:         driveService,
		spreadsheetID: spreadsheetID,
		folderID:      os.Getenv("DEALREG_DRIVE_FOLDER"),
	}, nil
}

// NewClientFromEnv wires a gateway from the stored OAuth token and the
// DEALREG_SPREADSHEET_ID environment variable.
func NewClientFromEnv() (*Client, error) {
	spreadsheetID := os.Getenv("DEALREG_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("DEALREG_SPREADSHEET_ID not set")
	}

	token, err := LoadToken()
	if err != nil {
		return nil, fmt.Errorf("not authenticated, run 'dealreg sync init' first: %w", err)
	}

	sheetsService, err := NewSheetsClient(token)
	if err != nil {
		return nil, err
	}
	driveService, err := NewDriveClient(token)
	if err != nil {
		return nil, err
	}

	return NewClient(sheetsService, driveService, spreadsheetID)
}

// Submit uploads the record's attachments to Drive, then appends one row to
// the sheet. The record is the transport view, so attachment payloads are
// present as base64.
func (c *Client) Submit(ctx context.Context, rec *models.DealRecord) SubmitResult {
	if err := c.ensureHeader(ctx); err != nil {
		return SubmitResult{Reason: err.Error()}
	}

	links, err := c.uploadAttachments(ctx, rec)
	if err != nil {
		return SubmitResult{Reason: err.Error()}
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{encodeRow(rec, links)}}
	_, err = c.sheets.Spreadsheets.Values.
		Append(c.spreadsheetID, sheetName+"!A:AF", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return SubmitResult{Reason: fmt.Sprintf("failed to append deal row: %v", err)}
	}

	return SubmitResult{OK: true}
}

// List reads every deal row from the sheet. Rows that fail to decode are
// skipped so one hand-edited cell cannot hide the rest of the pipeline.
func (c *Client) List(ctx context.Context) ([]models.DealRecord, error) {
	resp, err := c.sheets.Spreadsheets.Values.
		Get(c.spreadsheetID, sheetName+"!A2:AF").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read deal rows: %w", err)
	}

	var records []models.DealRecord
	for i, row := range resp.Values {
		rec, err := decodeRow(row)
		if err != nil {
			log.Printf("Skipping sheet row %d: %v", i+2, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// uploadAttachments pushes each attachment payload to Drive and returns the
// resulting web links in attachment order.
func (c *Client) uploadAttachments(ctx context.Context, rec *models.DealRecord) ([]string, error) {
	if len(rec.Attachments) == 0 {
		return nil, nil
	}

	links := make([]string, 0, len(rec.Attachments))
	for _, a := range rec.Attachments {
		data, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment %s: %w", a.Name, err)
		}

		meta := &drive.File{
			Name:     fmt.Sprintf("%s - %s", rec.ID, a.Name),
			MimeType: a.MimeType,
		}
		if c.folderID != "" {
			meta.Parents = []string{c.folderID}
		}

		created, err := c.drive.Files.Create(meta).
			Media(bytes.NewReader(data)).
			Fields("id", "webViewLink").
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment %s: %w", a.Name, err)
		}
		links = append(links, created.WebViewLink)
	}
	return links, nil
}

// ensureHeader writes the header row once, when the sheet is still blank.
func (c *Client) ensureHeader(ctx context.Context) error {
	resp, err := c.sheets.Spreadsheets.Values.
		Get(c.spreadsheetID, sheetName+"!A1:A1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to check sheet header: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{HeaderRow()}}
	_, err = c.sheets.Spreadsheets.Values.
		Update(c.spreadsheetID, sheetName+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}
	return nil
}
