// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/blog"
	"portfolio/internal/markdown"
	"portfolio/internal/render"
	"portfolio/internal/section"
)

// PostFinder looks up a post by slug, or by title when it has no slug.
type PostFinder interface {
	Find(key string) (blog.Post, bool)
}

// PostPage serves a single post with its Markdown body.
type PostPage struct {
	renderer *render.Renderer
	sections *section.Set
	owner    string
	posts    PostFinder
	notFound http.HandlerFunc
}

// NewPostPage creates the post page handler. Unknown keys are answered by
// notFound.
func NewPostPage(rn *render.Renderer, sections *section.Set, owner string, posts PostFinder, notFound http.HandlerFunc) *PostPage {
	return &PostPage{
		renderer: rn,
		sections: sections,
		owner:    owner,
		posts:    posts,
		notFound: notFound,
	}
}

// Show renders GET /posts/{key}.
func (pp *PostPage) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := pp.posts.Find(postKey(r))
	if !ok {
		pp.notFound(w, r)
		return
	}

	body, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("render post body failed", "key", post.Key(), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := render.NewPageData(pp.sections, "", pp.owner)
	data.Title = post.Title + " | " + pp.owner
	data.LivePath = ""
	data.Post = &render.PostView{
		Title:       post.Title,
		Date:        post.Date.String(),
		DateDisplay: post.Date.Display(),
		Excerpt:     post.Excerpt,
		Body:        body,
	}
	pp.renderer.Page(w, r, http.StatusOK, "post", data)
}

// postKey returns the decoded {key} parameter. chi matches on the raw path
// when it differs from the decoded one, e.g. for an escaped "/".
func postKey(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key
	}
	if decoded, err := url.PathUnescape(key); err == nil {
		return decoded
	}
	return key
}
