// Package web embeds the admin pages and renders them.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/folio/signupd/internal/model"
)

//go:embed templates/*.html static/*
var assets embed.FS

// StylesPath is the stylesheet location relative to the admin prefix.
const StylesPath = "/admin-styles.css"

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
}

// Pages holds the parsed admin templates and the stylesheet.
type Pages struct {
	setup  *template.Template
	panel  *template.Template
	styles []byte
}

// SetupData is rendered by the setup form.
type SetupData struct {
	AdminPath string
	Error     string
	MinLength int
}

// PanelData is rendered by the admin panel.
type PanelData struct {
	AdminPath string
	Signups   []*model.Signup
}

// Load parses the embedded templates.
func Load() (*Pages, error) {
	setup, err := template.New("setup.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/setup.html")
	if err != nil {
		return nil, fmt.Errorf("parse setup template: %w", err)
	}
	panel, err := template.New("panel.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/panel.html")
	if err != nil {
		return nil, fmt.Errorf("parse panel template: %w", err)
	}
	styles, err := assets.ReadFile("static/admin-styles.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return &Pages{setup: setup, panel: panel, styles: styles}, nil
}

// MustLoad is like Load but panics on error. The assets are compiled in,
// so a failure is a build defect.
func MustLoad() *Pages {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// RenderSetup writes the setup form.
func (p *Pages) RenderSetup(w io.Writer, data SetupData) error {
	return render(w, p.setup, data)
}

// RenderPanel writes the admin panel.
func (p *Pages) RenderPanel(w io.Writer, data PanelData) error {
	return render(w, p.panel, data)
}

// Styles returns the admin stylesheet.
func (p *Pages) Styles() []byte {
	return p.styles
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func render(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
