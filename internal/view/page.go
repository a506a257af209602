package view

import (
	"log/slog"
	"net/http"

	"github.com/branchdesk/branchdesk/internal/shared"
)

// Page bundles what every HTML handler needs to answer a request: the
// template engine, the CSRF token issuer and the session flash queue.
type Page struct {
	templates *Engine
	csrf      *shared.CSRFManager
	logger    *slog.Logger
}

// NewPage constructs a Page.
func NewPage(templates *Engine, csrf *shared.CSRFManager, logger *slog.Logger) *Page {
	if logger == nil {
		logger = slog.Default()
	}
	return &Page{templates: templates, csrf: csrf, logger: logger}
}

// Data assembles TemplateData for r, popping the oldest pending flash.
func (p *Page) Data(r *http.Request, title string, data any) TemplateData {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := p.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	var user *shared.Identity
	if sess != nil {
		flash = sess.PopFlash()
		if id, ok := sess.Identity(); ok {
			user = &id
		}
	}
	return TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}
}

// Render writes the named template with status.
func (p *Page) Render(w http.ResponseWriter, r *http.Request, name, title string, data any, status int) {
	viewData := p.Data(r, title, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.templates.Render(w, name, viewData); err != nil {
		p.logger.Error("render template", "error", err, "template", name)
	}
}

// Document renders the named template to bytes without touching the
// session.
func (p *Page) Document(name, title string, data any) ([]byte, error) {
	return p.templates.RenderBytes(name, TemplateData{Title: title, Data: data})
}

// RedirectWithFlash queues a flash message and redirects with 303.
func (p *Page) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// Flash queues a flash message shown on the next rendered page.
func (p *Page) Flash(r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
}
