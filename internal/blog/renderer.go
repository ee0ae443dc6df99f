// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog owns the in-memory post collection and renders it into the
// blog section. Posts are seeded at startup, changed only through Add and
// Remove, and never persisted.
package blog

import (
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portfolio/internal/slug"
)

// Container is the display target of the blog list. Exactly one of the list
// or the placeholder is visible after each call.
type Container interface {
	// ReplaceList replaces the whole list with fragment and hides the
	// placeholder.
	ReplaceList(fragment template.HTML)
	// ShowPlaceholder hides the list and shows the "no posts yet" element.
	ShowPlaceholder()
}

// Containers fans every update out to several containers in order.
type Containers []Container

func (cs Containers) ReplaceList(fragment template.HTML) {
	for _, c := range cs {
		c.ReplaceList(fragment)
	}
}

func (cs Containers) ShowPlaceholder() {
	for _, c := range cs {
		c.ShowPlaceholder()
	}
}

// Renderer owns the post collection and re-renders the container after
// every change. It is safe for concurrent use; container calls are
// serialized.
type Renderer struct {
	mu        sync.Mutex
	posts     []Post
	container Container
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the clock used to date posts added without a date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a Renderer seeded with a copy of seed. It does not
// render; call Render once the container is ready.
func NewRenderer(seed []Post, container Container, opts ...Option) *Renderer {
	r := &Renderer{
		posts:     append([]Post(nil), seed...),
		container: container,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render rebuilds the display from the current collection.
func (r *Renderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked()
}

// Add validates p, fills in the date and slug when missing, inserts it at
// the front of the collection and re-renders. On validation failure the
// collection is unchanged.
func (r *Renderer) Add(p Post) (Post, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Excerpt = strings.TrimSpace(p.Excerpt)
	p.Slug = strings.TrimSpace(p.Slug)
	if err := p.Validate(); err != nil {
		return Post{}, err
	}
	if p.Date.IsZero() {
		p.Date = DateOf(r.now())
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = append([]Post{p}, r.posts...)
	slog.Info("blog post added", "slug", p.Slug, "date", p.Date.String(), "total", len(r.posts))
	if err := r.renderLocked(); err != nil {
		slog.Error("render after add failed", "error", err)
	}
	return p, nil
}

// Remove deletes the first post whose key equals key and re-renders. It
// reports whether a post was removed; an unknown key is not an error.
func (r *Renderer) Remove(key string) (bool, error) {
	if key == "" {
		return false, &ValidationError{Field: "key", Message: "is required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for i, p := range r.posts {
		if p.Key() == key {
			r.posts = append(r.posts[:i:i], r.posts[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		slog.Info("blog post removed", "key", key, "total", len(r.posts))
	}
	if err := r.renderLocked(); err != nil {
		slog.Error("render after remove failed", "error", err)
	}
	return removed, nil
}

// Posts returns a copy of the collection in storage order.
func (r *Renderer) Posts() []Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Post(nil), r.posts...)
}

// Find returns the first post whose key equals key.
func (r *Renderer) Find(key string) (Post, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Key() == key {
			return p, true
		}
	}
	return Post{}, false
}

// View returns the current display model.
func (r *Renderer) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return BuildView(r.posts)
}

func (r *Renderer) renderLocked() error {
	view := BuildView(r.posts)
	if view.Empty() {
		r.container.ShowPlaceholder()
		return nil
	}
	fragment, err := Fragment(view)
	if err != nil {
		return err
	}
	r.container.ReplaceList(fragment)
	return nil
}

// Display is a Container that keeps the latest rendered state so pages can
// be served with the current list.
type Display struct {
	mu       sync.RWMutex
	fragment template.HTML
	empty    bool
	version  uint64
}

// NewDisplay returns a Display showing the placeholder.
func NewDisplay() *Display {
	return &Display{empty: true}
}

func (d *Display) ReplaceList(fragment template.HTML) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fragment = fragment
	d.empty = false
	d.version++
}

func (d *Display) ShowPlaceholder() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fragment = ""
	d.empty = true
	d.version++
}

// Current returns the latest list markup, whether the placeholder is shown,
// and a counter that changes on every render.
func (d *Display) Current() (fragment template.HTML, empty bool, version uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fragment, d.empty, d.version
}
