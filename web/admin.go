// ABOUTME: Admin dashboard handlers behind a shared-secret gate
// ABOUTME: Deal table, sync status, reminder candidates, and CSV export
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/export"
	"github.com/harperreed/dealreg/models"
)

// requireAdmin checks the shared secret from the X-Admin-Secret header or
// the secret query parameter. An unset ADMIN_SECRET disables the admin
// surface entirely.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminSecret == "" {
		http.Error(w, "Admin access not configured", http.StatusForbidden)
		return false
	}

	secret := r.Header.Get("X-Admin-Secret")
	if secret == "" {
		secret = r.URL.Query().Get("secret")
	}
	if secret != s.adminSecret {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	deals, err := db.ListDeals(s.db, "", 500)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	unsynced, err := db.UnsyncedDeals(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	states, err := db.GetAllSyncStates(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Reminder candidates: opted-in deals closing within the next 60 days.
	var reminders []models.DealRecord
	for _, d := range deals {
		if d.RemindersOptIn && dates.WithinNextSixtyDays(d.ExpectedCloseDate) {
			reminders = append(reminders, d)
		}
	}

	data := map[string]interface{}{
		"Title":           "Deal Admin",
		"ContentTemplate": "admin-content",
		"Deals":           deals,
		"UnsyncedCount":   len(unsynced),
		"SyncStates":      states,
		"Reminders":       reminders,
		"Secret":          s.adminSecret,
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	deals, err := db.ListDeals(s.db, "", 10000)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// The list view skips updates; the export includes them.
	for i := range deals {
		updates, err := db.GetDealUpdates(s.db, deals[i].ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		deals[i].Updates = updates
	}

	filename := fmt.Sprintf("deals-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteCSV(w, deals); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
