// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// Every page template is paired with the base layout, which carries the
// navigation, the decorative shapes and the live client script.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"portfolio/internal/section"
)

//go:embed templates/site/*.html
var siteFS embed.FS

// SectionView is one navigable section as the templates see it.
type SectionView struct {
	Name      string
	Label     string
	ContentID string
	Active    bool
}

// PageData holds all data passed to site templates.
type PageData struct {
	Title     string        // Page title for <title> tag
	Owner     string        // Site owner shown in the hero and footer
	Sections  []SectionView // Navigation order
	BlogHTML  template.HTML // Pre-rendered, escaped post list
	BlogEmpty bool          // Show the "no posts yet" placeholder instead
	LivePath  string        // WebSocket endpoint of the live client
	Post      *PostView     // Set on the single post page
	Year      int
}

// PostView is a single post as the post page shows it.
type PostView struct {
	Title       string
	Date        string // YYYY-MM-DD
	DateDisplay string
	Excerpt     string
	Body        template.HTML // Rendered Markdown, empty when the post has no body
}

// NewPageData builds the data for a page with active as the visible section.
func NewPageData(sections *section.Set, active section.Section, owner string) *PageData {
	data := &PageData{
		Title:    section.DocumentTitle(active, owner),
		Owner:    owner,
		LivePath: "/live",
		Year:     time.Now().Year(),
	}
	for _, s := range sections.All() {
		data.Sections = append(data.Sections, SectionView{
			Name:      s.String(),
			Label:     s.Label(),
			ContentID: s.ContentID(),
			Active:    s == active,
		})
	}
	return data
}

// Renderer handles template parsing and execution for site pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// pages lists the page templates paired with base.html.
var pages = []string{"index", "post", "not_found"}

// New creates a Renderer by parsing the site templates from the embedded
// filesystem. When devMode is true, the live client logs its traffic to
// the browser console.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// isDev returns true when the app runs in development mode.
			"isDev": func() bool {
				return devMode
			},
			"ariaBool": func(b bool) string {
				if b {
					return "true"
				}
				return "false"
			},
		},
	}

	for _, name := range pages {
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			siteFS, "templates/site/base.html", "templates/site/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Execute renders the named page into w.
func (rn *Renderer) Execute(w io.Writer, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// Bytes renders the named page into memory, for callers that cache it.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := rn.Execute(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Page renders a full page with the given status. Rendering happens before
// anything is written so a template error still yields a clean 500.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	body, err := rn.Bytes(name, data)
	if err != nil {
		slog.Error("render page failed", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
