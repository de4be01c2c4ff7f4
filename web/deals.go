// ABOUTME: JSON API handlers for deal submission and lifecycle actions
// ABOUTME: Validation errors and duplicate warnings map to 422 and 409
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
	"github.com/harperreed/dealreg/register"
	"github.com/harperreed/dealreg/sheets"
)

// maxSubmissionBytes bounds the request body: 20 MiB of attachments plus
// base64 overhead and the form fields themselves.
const maxSubmissionBytes = 32 << 20

type fileUpload struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"` // base64 on the wire
}

// dealSubmission is the wire form of a draft. Value arrives as entered, so
// "48,500" is accepted and coerced server-side.
type dealSubmission struct {
	ResellerCountry  string `json:"reseller_country"`
	ResellerLocation string `json:"reseller_location"`
	ResellerName     string `json:"reseller_name"`
	ResellerContact  string `json:"reseller_contact"`
	ResellerEmail    string `json:"reseller_email"`
	ResellerPhone    string `json:"reseller_phone"`

	CustomerName string   `json:"customer_name"`
	City         string   `json:"city"`
	Country      string   `json:"country"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`

	Industry          string `json:"industry"`
	Currency          string `json:"currency"`
	Value             string `json:"value"`
	Solution          string `json:"solution"`
	Stage             string `json:"stage"`
	Probability       *int   `json:"probability"`
	ExpectedCloseDate string `json:"expected_close_date"`

	Supports    []string `json:"supports"`
	Competitors []string `json:"competitors"`
	Notes       string   `json:"notes"`

	EvidenceLinks []string     `json:"evidence_links"`
	Files         []fileUpload `json:"files"`

	Confidential   bool `json:"confidential"`
	RemindersOptIn bool `json:"reminders_opt_in"`
	Consent        bool `json:"consent"`

	ConfirmDuplicate bool `json:"confirm_duplicate"`
}

func (sub *dealSubmission) toDraft(ref *models.Reference) *models.Draft {
	draft := &models.Draft{
		ResellerLocation:  sub.ResellerLocation,
		ResellerName:      sub.ResellerName,
		ResellerContact:   sub.ResellerContact,
		ResellerEmail:     sub.ResellerEmail,
		ResellerPhone:     sub.ResellerPhone,
		CustomerName:      sub.CustomerName,
		City:              sub.City,
		Country:           sub.Country,
		Lat:               sub.Lat,
		Lng:               sub.Lng,
		Industry:          sub.Industry,
		Solution:          sub.Solution,
		ValueRaw:          sub.Value,
		ExpectedCloseDate: sub.ExpectedCloseDate,
		Supports:          sub.Supports,
		Competitors:       sub.Competitors,
		Notes:             sub.Notes,
		EvidenceLinks:     sub.EvidenceLinks,
		FileCount:         len(sub.Files),
		Confidential:      sub.Confidential,
		RemindersOptIn:    sub.RemindersOptIn,
		Consent:           sub.Consent,
	}

	// Derived fields follow their sources unless the submission overrides
	// them explicitly.
	register.ApplyResellerCountry(draft, ref, sub.ResellerCountry)
	if sub.ResellerLocation != "" {
		register.SetResellerLocation(draft, sub.ResellerLocation)
	}
	if sub.Currency != "" {
		register.SetCurrency(draft, sub.Currency)
	}
	register.ApplyStage(draft, ref, sub.Stage)
	if sub.Probability != nil {
		register.SetProbability(draft, *sub.Probability)
	}

	return draft
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listDeals(w, r)
	case http.MethodPost:
		s.createDeal(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := db.ListDeals(s.db, r.URL.Query().Get("status"), 500)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deals": deals})
}

func (s *Server) createDeal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)

	var sub dealSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	draft := sub.toDraft(s.ref)
	if errs := register.Validate(draft); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		return
	}

	// Advisory duplicate check. The submission proceeds once the client
	// confirms it is intentional.
	if !sub.ConfirmDuplicate {
		existing, err := db.ListDeals(s.db, "", 1000)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if warning := register.CheckDuplicate(draft, existing); warning != nil {
			writeJSON(w, http.StatusConflict, map[string]interface{}{"duplicate": warning})
			return
		}
	}

	files := make([]register.File, len(sub.Files))
	for i, f := range sub.Files {
		files[i] = register.File{Name: f.Name, MimeType: f.MimeType, Data: f.Data}
	}
	attachments, err := register.EncodeAttachments(files)
	if err != nil {
		var encErr *register.EncodingError
		if errors.As(err, &encErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]interface{}{
				"errors": map[string]string{"files": encErr.Message},
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rec := s.codec.Build(draft, attachments)
	if err := db.CreateDeal(s.db, rec); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// The spreadsheet push is best-effort. The record is already persisted
	// locally and a failed push stays queued for the sync runner.
	syncResult := sheets.SubmitResult{Reason: "sync not configured"}
	if s.gateway != nil {
		syncResult = s.pushToGateway(r.Context(), rec)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"deal": register.LocalView(rec),
		"sync": syncResult,
	})
}

func (s *Server) pushToGateway(ctx context.Context, rec *models.DealRecord) sheets.SubmitResult {
	syncer := &sheets.Syncer{DB: s.db, Gateway: s.gateway}
	if err := syncer.PushDeal(ctx, rec.ID); err != nil {
		log.Printf("Push failed for deal %s: %v", rec.ID, err)
		return sheets.SubmitResult{Reason: err.Error()}
	}
	return sheets.SubmitResult{OK: true}
}

func (s *Server) handleDealSubpath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/deals/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
		s.getDeal(w, r, id)
	case "updates":
		s.dealUpdates(w, r, id)
	case "reminders":
		s.dealReminders(w, r, id)
	case "sync":
		s.dealSync(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rec, err := db.GetDeal(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "Deal not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deal": rec})
}

func (s *Server) dealUpdates(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		updates, err := db.GetDealUpdates(s.db, id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"updates": updates})

	case http.MethodPost:
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Content) == "" {
			http.Error(w, "Update content is required", http.StatusUnprocessableEntity)
			return
		}

		rec, err := db.GetDeal(s.db, id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if rec == nil {
			http.Error(w, "Deal not found", http.StatusNotFound)
			return
		}

		update := &models.DealUpdate{DealID: id, Content: strings.TrimSpace(body.Content)}
		if err := db.AddDealUpdate(s.db, update); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"update": update})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) dealReminders(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		OptIn bool `json:"opt_in"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := db.SetRemindersOptIn(s.db, id, body.OptIn); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reminders_opt_in": body.OptIn})
}

func (s *Server) dealSync(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.gateway == nil {
		http.Error(w, "Sync not configured", http.StatusServiceUnavailable)
		return
	}

	syncer := &sheets.Syncer{DB: s.db, Gateway: s.gateway}
	if err := syncer.PushDeal(r.Context(), id); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"sync": sheets.SubmitResult{Reason: err.Error()},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sync": sheets.SubmitResult{OK: true},
	})
}

func (s *Server) handleDuplicateCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	draft := &models.Draft{
		CustomerName:      q.Get("customer_name"),
		Solution:          q.Get("solution"),
		ExpectedCloseDate: q.Get("expected_close_date"),
	}

	existing, err := db.ListDeals(s.db, "", 1000)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"duplicate": register.CheckDuplicate(draft, existing),
	})
}

func (s *Server) handleSyncRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	if s.gateway == nil {
		http.Error(w, "Sync not configured", http.StatusServiceUnavailable)
		return
	}

	syncer := &sheets.Syncer{DB: s.db, Gateway: s.gateway}
	res, err := syncer.Run(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pushed": res.Pushed,
		"failed": res.Failed,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func jsonMarshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
