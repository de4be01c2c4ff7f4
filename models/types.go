// ABOUTME: Data models for deal registration entities
// ABOUTME: Defines DealRecord, Draft, Attachment, and DealUpdate structs
package models

import (
	"time"

	"github.com/google/uuid"
)

// DealRecord is a validated, persisted deal submission.
type DealRecord struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submitted_at"` // calendar date, YYYY-MM-DD

	// Reseller profile
	ResellerCountry  string `json:"reseller_country"`
	ResellerLocation string `json:"reseller_location"`
	ResellerName     string `json:"reseller_name"`
	ResellerContact  string `json:"reseller_contact"`
	ResellerEmail    string `json:"reseller_email"`
	ResellerPhone    string `json:"reseller_phone,omitempty"`

	// Customer profile
	CustomerName     string   `json:"customer_name"`
	CustomerLocation string   `json:"customer_location"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`

	// Commercial fields
	Industry          string  `json:"industry,omitempty"`
	Currency          string  `json:"currency"`
	Value             float64 `json:"value"`
	Solution          string  `json:"solution"`
	Stage             string  `json:"stage"`
	Probability       int     `json:"probability"`
	ExpectedCloseDate string  `json:"expected_close_date"`

	Supports    []string `json:"supports,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
	Notes       string   `json:"notes,omitempty"`

	// Evidence
	EvidenceLinks []string     `json:"evidence_links,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`

	// Lifecycle
	Status         string `json:"status"`
	Confidential   bool   `json:"confidential"`
	RemindersOptIn bool   `json:"reminders_opt_in"`
	LockExpiry     string `json:"lock_expiry,omitempty"`
	SyncedAt       string `json:"synced_at,omitempty"`

	Updates []DealUpdate `json:"updates,omitempty"`
}

// Attachment is one file of evidence. Content is the base64 payload and is
// only populated on the transport view; the local view carries name, mime
// type, and size.
type Attachment struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Content   string `json:"content,omitempty"`
}

// DealUpdate is one append-only progress entry on a record.
type DealUpdate struct {
	ID        uuid.UUID `json:"id"`
	DealID    string    `json:"deal_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is an in-progress, unvalidated submission held in form state.
// Touched flags record that the user hand-edited a derived field, which
// stops it from following its source field.
type Draft struct {
	ResellerCountry  string
	ResellerLocation string
	ResellerName     string
	ResellerContact  string
	ResellerEmail    string
	ResellerPhone    string

	CustomerName string
	City         string
	Country      string
	Lat          *float64
	Lng          *float64

	Industry          string
	Currency          string
	Value             float64
	ValueRaw          string // as entered; Value is the coerced amount
	Solution          string
	Stage             string
	Probability       int
	ExpectedCloseDate string

	Supports    []string
	Competitors []string
	Notes       string

	EvidenceLinks []string
	FileCount     int // selected files, before encoding

	Confidential   bool
	RemindersOptIn bool
	Consent        bool

	ProbabilityTouched bool
	CurrencyTouched    bool
	LocationTouched    bool
}

// CustomerLocation composes the display location from city and country.
func (d *Draft) CustomerLocation() string {
	if d.Country == "" {
		return d.City
	}
	if d.City == "" {
		return d.Country
	}
	return d.City + ", " + d.Country
}

// Stage constants.
const (
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Status constants.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)
