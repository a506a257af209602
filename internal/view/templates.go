package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/branchdesk/branchdesk/internal/billing"
	"github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        *shared.Identity
	Data        any
}

var counter = message.NewPrinter(language.English)

// dated covers time.Time and types embedding it.
type dated interface {
	IsZero() bool
	Format(layout string) string
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t dated) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"money":   billing.FormatMoney,
		"percent": billing.FormatPercent,
		"count": func(n int64) string {
			return counter.Sprintf("%d", n)
		},
		"qty": func(d decimal.Decimal) string {
			return d.String()
		},
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
		"inlineCSS": inlineCSS,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderBytes executes a named template into memory, for documents handed
// to the PDF renderer.
func (e *Engine) RenderBytes(name string, data TemplateData) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inlineCSS(name string) (template.CSS, error) {
	raw, err := fs.ReadFile(web.Static, "static/css/"+name)
	if err != nil {
		return "", err
	}
	return template.CSS(raw), nil
}
