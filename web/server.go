// ABOUTME: Web server with embedded templates for the deal registration form
// ABOUTME: Serves the public form, the JSON API, and the admin dashboard
package web

import (
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"

	"github.com/harperreed/dealreg/models"
	"github.com/harperreed/dealreg/register"
	"github.com/harperreed/dealreg/sheets"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	db          *sql.DB
	templates   *template.Template
	gateway     sheets.Gateway // nil when sync is not configured
	codec       *register.Codec
	ref         *models.Reference
	adminSecret string
	mux         *http.ServeMux
}

// NewServer wires the form, API, and admin routes. gateway may be nil, in
// which case submissions are stored locally and queued for a later sync.
func NewServer(database *sql.DB, gateway sheets.Gateway) (*Server, error) {
	funcMap := template.FuncMap{
		"json": func(v interface{}) (template.JS, error) {
			b, err := jsonMarshal(v)
			return template.JS(b), err
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	ref := models.DefaultReference()
	s := &Server{
		db:          database,
		templates:   tmpl,
		gateway:     gateway,
		codec:       register.NewCodec(register.NewULIDGenerator(), ref),
		ref:         ref,
		adminSecret: os.Getenv("ADMIN_SECRET"),
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleForm)
	s.mux.HandleFunc("/api/deals", s.handleDeals)
	s.mux.HandleFunc("/api/deals/", s.handleDealSubpath)
	s.mux.HandleFunc("/api/duplicate-check", s.handleDuplicateCheck)
	s.mux.HandleFunc("/api/sync", s.handleSyncRun)
	s.mux.HandleFunc("/admin", s.handleAdmin)
	s.mux.HandleFunc("/admin/export.csv", s.handleExportCSV)

	return s, nil
}

// Handler exposes the route table for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := map[string]interface{}{
		"Title":           "Register a Deal",
		"ContentTemplate": "form-content",
		"Reference":       s.ref,
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
