// ABOUTME: Deal record and progress update database operations
// ABOUTME: Handles record persistence, append-only updates, and sync marks
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dealreg/models"
)

const dealColumns = `id, submitted_at, reseller_country, reseller_location, reseller_name,
	reseller_contact, reseller_email, reseller_phone, customer_name, customer_location,
	city, country, lat, lng, industry, currency, value, solution, stage, probability,
	expected_close_date, supports, competitors, notes, evidence_links, status,
	confidential, reminders_opt_in, lock_expiry, synced_at`

// CreateDeal persists a record and its attachment payloads in one
// transaction. The record's ID and submission date must already be stamped.
func CreateDeal(db *sql.DB, rec *models.DealRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("deal record has no id")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO deals (`+dealColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.SubmittedAt, rec.ResellerCountry, rec.ResellerLocation, rec.ResellerName,
		rec.ResellerContact, rec.ResellerEmail, rec.ResellerPhone, rec.CustomerName, rec.CustomerLocation,
		rec.City, rec.Country, rec.Lat, rec.Lng, rec.Industry, rec.Currency, rec.Value,
		rec.Solution, rec.Stage, rec.Probability, rec.ExpectedCloseDate,
		marshalList(rec.Supports), marshalList(rec.Competitors), rec.Notes, marshalList(rec.EvidenceLinks),
		rec.Status, rec.Confidential, rec.RemindersOptIn, nullable(rec.LockExpiry), nullable(rec.SyncedAt),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deal: %w", err)
	}

	for _, a := range rec.Attachments {
		_, err = tx.Exec(`
			INSERT INTO attachments (deal_id, name, mime_type, size_bytes, content)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, a.Name, a.MimeType, a.SizeBytes, a.Content)
		if err != nil {
			return fmt.Errorf("failed to insert attachment %s: %w", a.Name, err)
		}
	}

	return tx.Commit()
}

// GetDeal loads the local view of a record: attachment metadata without
// payloads, plus the update history. Returns nil when not found.
func GetDeal(db *sql.DB, id string) (*models.DealRecord, error) {
	row := db.QueryRow(`SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)

	rec, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Attachments, err = attachmentMeta(db, id)
	if err != nil {
		return nil, err
	}

	rec.Updates, err = GetDealUpdates(db, id)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListDeals returns the local view of all records, newest first. Pass an
// empty status to list every record.
func ListDeals(db *sql.DB, status string, limit int) ([]models.DealRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.Query(`
			SELECT `+dealColumns+` FROM deals
			WHERE status = ?
			ORDER BY created_at DESC
			LIMIT ?
		`, status, limit)
	} else {
		rows, err = db.Query(`
			SELECT `+dealColumns+` FROM deals
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.DealRecord
	for rows.Next() {
		rec, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *rec)
	}

	return deals, rows.Err()
}

// UnsyncedDeals returns records that have never been pushed to the external
// store, oldest first, so manual retries preserve submission order.
func UnsyncedDeals(db *sql.DB) ([]models.DealRecord, error) {
	rows, err := db.Query(`
		SELECT ` + dealColumns + ` FROM deals
		WHERE synced_at IS NULL OR synced_at = ''
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.DealRecord
	for rows.Next() {
		rec, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *rec)
	}

	return deals, rows.Err()
}

// LoadAttachments returns the transport view of a record's attachments,
// payloads included.
func LoadAttachments(db *sql.DB, dealID string) ([]models.Attachment, error) {
	rows, err := db.Query(`
		SELECT name, mime_type, size_bytes, content
		FROM attachments
		WHERE deal_id = ?
		ORDER BY id
	`, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.Name, &a.MimeType, &a.SizeBytes, &a.Content); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}

	return attachments, rows.Err()
}

// AddDealUpdate appends a progress entry. Entries are never edited or
// removed once added.
func AddDealUpdate(db *sql.DB, update *models.DealUpdate) error {
	update.ID = uuid.New()
	update.CreatedAt = time.Now()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO deal_updates (id, deal_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`, update.ID.String(), update.DealID, update.Content, update.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE deals SET updated_at = ? WHERE id = ?
	`, update.CreatedAt, update.DealID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetDealUpdates returns a record's progress entries, oldest first.
func GetDealUpdates(db *sql.DB, dealID string) ([]models.DealUpdate, error) {
	rows, err := db.Query(`
		SELECT id, deal_id, content, created_at
		FROM deal_updates
		WHERE deal_id = ?
		ORDER BY created_at ASC
	`, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []models.DealUpdate
	for rows.Next() {
		var u models.DealUpdate
		var id string
		if err := rows.Scan(&id, &u.DealID, &u.Content, &u.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err == nil {
			u.ID = parsed
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}

// SetRemindersOptIn toggles reminder emails for a record. Idempotent on
// retry; last write wins.
func SetRemindersOptIn(db *sql.DB, id string, optIn bool) error {
	_, err := db.Exec(`
		UPDATE deals SET reminders_opt_in = ?, updated_at = ? WHERE id = ?
	`, optIn, time.Now(), id)
	return err
}

// MarkSynced stamps the date a record reached the external store.
func MarkSynced(db *sql.DB, id, syncedAt string) error {
	_, err := db.Exec(`
		UPDATE deals SET synced_at = ?, updated_at = ? WHERE id = ?
	`, syncedAt, time.Now(), id)
	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDeal(s scanner) (*models.DealRecord, error) {
	rec := &models.DealRecord{}
	var phone, customerLocation, city, country, industry sql.NullString
	var resellerCountry, resellerLocation, notes sql.NullString
	var lat, lng sql.NullFloat64
	var supports, competitors, links sql.NullString
	var lockExpiry, syncedAt sql.NullString

	err := s.Scan(
		&rec.ID, &rec.SubmittedAt, &resellerCountry, &resellerLocation, &rec.ResellerName,
		&rec.ResellerContact, &rec.ResellerEmail, &phone, &rec.CustomerName, &customerLocation,
		&city, &country, &lat, &lng, &industry, &rec.Currency, &rec.Value,
		&rec.Solution, &rec.Stage, &rec.Probability, &rec.ExpectedCloseDate,
		&supports, &competitors, &notes, &links, &rec.Status,
		&rec.Confidential, &rec.RemindersOptIn, &lockExpiry, &syncedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ResellerCountry = resellerCountry.String
	rec.ResellerLocation = resellerLocation.String
	rec.ResellerPhone = phone.String
	rec.CustomerLocation = customerLocation.String
	rec.City = city.String
	rec.Country = country.String
	rec.Industry = industry.String
	rec.Notes = notes.String
	rec.LockExpiry = lockExpiry.String
	rec.SyncedAt = syncedAt.String

	if lat.Valid {
		rec.Lat = &lat.Float64
	}
	if lng.Valid {
		rec.Lng = &lng.Float64
	}

	rec.Supports = unmarshalList(supports.String)
	rec.Competitors = unmarshalList(competitors.String)
	rec.EvidenceLinks = unmarshalList(links.String)

	return rec, nil
}

func attachmentMeta(db *sql.DB, dealID string) ([]models.Attachment, error) {
	rows, err := db.Query(`
		SELECT name, mime_type, size_bytes
		FROM attachments
		WHERE deal_id = ?
		ORDER BY id
	`, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.Name, &a.MimeType, &a.SizeBytes); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}

	return attachments, rows.Err()
}

func marshalList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	b, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
