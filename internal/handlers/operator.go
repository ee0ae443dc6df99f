// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/blog"
	"portfolio/internal/middleware"
)

// maxPostBody caps the JSON body of a new post.
const maxPostBody = 256 << 10

// Operator groups the JSON handlers that change the post collection.
// Every change re-renders the blog list, which reaches connected pages
// and drops cached pages through the renderer's containers.
type Operator struct {
	posts *blog.Renderer
}

// NewOperator creates a new Operator handler group.
func NewOperator(posts *blog.Renderer) *Operator {
	return &Operator{posts: posts}
}

// postListResponse is the body of GET /operator/posts.
type postListResponse struct {
	Posts []blog.Entry `json:"posts"`
}

// removeResponse is the body of DELETE /operator/posts.
type removeResponse struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

// errorResponse is the body of every 4xx reply.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// List returns the posts in display order, newest first.
func (o *Operator) List(w http.ResponseWriter, r *http.Request) {
	view := o.posts.View()
	entries := view.Entries
	if entries == nil {
		entries = []blog.Entry{}
	}
	writeJSON(w, http.StatusOK, postListResponse{Posts: entries})
}

// Create adds a post. Date defaults to today and slug is derived from the
// title when omitted.
func (o *Operator) Create(w http.ResponseWriter, r *http.Request) {
	var post blog.Post
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&post); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	created, err := o.posts.Add(post)
	if err != nil {
		o.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Remove deletes the first post whose slug, or title when it has no slug,
// equals the key. The key comes from the path or the "key" query parameter.
func (o *Operator) Remove(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		key = r.URL.Query().Get("key")
	}
	key = strings.TrimSpace(key)

	removed, err := o.posts.Remove(key)
	if err != nil {
		o.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removeResponse{Key: key, Removed: removed})
}

func (o *Operator) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *blog.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
		return
	}
	slog.Error("operator request failed",
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFromCtx(r.Context()),
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
