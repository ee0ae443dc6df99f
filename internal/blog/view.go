// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"bytes"
	"cmp"
	"fmt"
	"html/template"
	"net/url"
	"slices"
)

// Entry is one post as it appears in the rendered list.
type Entry struct {
	Title   string `json:"title"`
	Date    Date   `json:"date"`
	Excerpt string `json:"excerpt"`
	Slug    string `json:"slug"`
}

// URL is the path of the post's own page.
func (e Entry) URL() string {
	return "/posts/" + url.PathEscape(e.Slug)
}

// View is the display model of the blog list, newest post first.
type View struct {
	Entries []Entry
}

// Empty reports whether the placeholder should be shown instead of a list.
func (v View) Empty() bool {
	return len(v.Entries) == 0
}

// BuildView sorts posts by date, newest first. Posts with the same date keep
// their relative input order. posts is not modified.
func BuildView(posts []Post) View {
	type indexed struct {
		i int
		p Post
	}
	order := make([]indexed, len(posts))
	for i, p := range posts {
		order[i] = indexed{i: i, p: p}
	}
	slices.SortFunc(order, func(a, b indexed) int {
		if c := b.p.Date.Compare(a.p.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.i, b.i)
	})

	v := View{Entries: make([]Entry, len(order))}
	for n, o := range order {
		v.Entries[n] = Entry{
			Title:   o.p.Title,
			Date:    o.p.Date,
			Excerpt: o.p.Excerpt,
			Slug:    o.p.Key(),
		}
	}
	return v
}

// listTemplate renders the post list. html/template escapes every field
// for its context, so post text is always displayed as text.
var listTemplate = template.Must(template.New("posts").Parse(
	`{{range .Entries}}<article class="blog-post" data-date="{{.Date}}">
  <h3 class="post-title">{{.Title}}</h3>
  <p class="post-date"><time datetime="{{.Date}}">{{.Date.Display}}</time></p>
  <p class="post-excerpt">{{.Excerpt}}</p>
  <a href="{{.URL}}" class="read-more" data-slug="{{.Slug}}" aria-label="Read more about {{.Title}}">Read More</a>
</article>
{{end}}`))

// Fragment renders the list markup for v.
func Fragment(v View) (template.HTML, error) {
	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render post list: %w", err)
	}
	// Output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}
