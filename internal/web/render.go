package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/jobdork/internal/analytics"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/catalog"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/logging"
	"github.com/hpungsan/jobdork/internal/search"
	"github.com/hpungsan/jobdork/internal/settings"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "search", "board"
	Theme   settings.Theme
}

// SiteOption is one catalog checkbox on the search form.
type SiteOption struct {
	catalog.JobSite
	Checked bool
}

// SiteGroup is a titled block of site checkboxes.
type SiteGroup struct {
	Title string
	Sites []SiteOption
}

// DateOption is one entry of the date filter select.
type DateOption struct {
	Value    string
	Label    string
	Selected bool
}

// SearchPageData is the template data for the search page.
type SearchPageData struct {
	PageData
	Role      string
	Location  string
	Groups    []SiteGroup
	Dates     []DateOption
	Query     string
	URL       string
	History   []search.HistoryEntry
	Presets   []search.Preset
	Blocklist []string
	Summary   analytics.Summary
	Notice    string
}

// CardData is one application card with its rendered notes.
type CardData struct {
	board.Application
	NotesHTML template.HTML
}

// ColumnData is one kanban column.
type ColumnData struct {
	Status board.Status
	Title  string
	Cards  []CardData
}

// BoardPageData is the template data for the kanban board page.
type BoardPageData struct {
	PageData
	Columns  []ColumnData
	Statuses []board.Status
	Total    int
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       logging.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log logging.Logger) *Renderer {
	if log == nil {
		log = logging.NewNop()
	}
	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"deref":      deref,
		"hasValue":   hasValue,
		"siteName":   siteName,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"search": "search.html",
		"board":  "board.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// renderPage renders a named page template with HTTP 200.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template.
// For HTMX requests only the "content" block is rendered.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("template not found", logging.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && isHTMX(req) {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error("template execution failed", logging.String("template", name), logging.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	jErr, ok := errors.As(err)
	if !ok {
		jErr = errors.NewInternal(err)
	}
	if jErr.Code == errors.ErrInternal {
		r.log.Error("request failed", logging.String("path", req.URL.Path), logging.Error(err))
	}

	status := jErr.Status
	message := jErr.Message

	if isHTMX(req) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(jErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func isHTMX(req *http.Request) bool {
	return req.Header.Get("HX-Request") == "true"
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderMarkdown converts markdown notes to HTML. goldmark drops raw HTML
// unless told otherwise.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a timestamp as "2006-01-02 15:04" UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// siteName maps a catalog id to its display name, falling back to the id.
func siteName(id string) string {
	if s, ok := catalog.Lookup(id); ok {
		return s.Name
	}
	return id
}

// deref dereferences a pointer, returning the zero value if nil.
func deref(v any) any {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return rv.Elem().Interface()
	}
	return v
}

// hasValue checks if a pointer value is non-nil.
func hasValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return true
}
