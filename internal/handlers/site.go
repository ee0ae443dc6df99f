// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"portfolio/internal/cache"
	"portfolio/internal/render"
	"portfolio/internal/section"
)

// BlogSnapshot provides the latest rendered blog list. *blog.Display
// implements it.
type BlogSnapshot interface {
	Current() (fragment template.HTML, empty bool, version uint64)
}

// Public groups handlers for the public site page. It checks the Valkey
// page cache before rendering, and stores rendered results on miss.
type Public struct {
	renderer  *render.Renderer
	sections  *section.Set
	owner     string
	blog      BlogSnapshot
	pageCache cache.Pages
}

// NewPublic creates a new Public handler group. pageCache may be nil if
// Valkey is not configured.
func NewPublic(rn *render.Renderer, sections *section.Set, owner string, blog BlogSnapshot, pageCache cache.Pages) *Public {
	return &Public{
		renderer:  rn,
		sections:  sections,
		owner:     owner,
		blog:      blog,
		pageCache: pageCache,
	}
}

// Homepage renders the single-document site with every section, the
// first section visible and the current blog list embedded. The live
// client applies the URL fragment once connected.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fragment, empty, version := p.blog.Current()
	key := cache.HomepageKey(version)

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	data := render.NewPageData(p.sections, p.sections.First(), p.owner)
	data.BlogHTML = fragment
	data.BlogEmpty = empty

	rendered, err := p.renderer.Bytes("index", data)
	if err != nil {
		slog.Error("render homepage failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, rendered)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(rendered)
}

// NotFound renders the 404 page. It is a plain document without the live
// client; its nav links point back to the site page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	data := render.NewPageData(p.sections, "", p.owner)
	data.Title = "Not Found | " + p.owner
	data.LivePath = ""
	p.renderer.Page(w, r, http.StatusNotFound, "not_found", data)
}
