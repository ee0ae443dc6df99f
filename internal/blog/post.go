// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire and storage format of a post date.
const DateLayout = "2006-01-02"

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxExcerptLen = 1_000
	maxContentLen = 100_000
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing or malformed post field or removal key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Date is a calendar date without time of day.
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Display returns the long US form, e.g. "January 15, 2024".
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("January 2, 2006")
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Post is a blog entry shown in the blog section.
type Post struct {
	Title   string `json:"title" yaml:"title"`
	Date    Date   `json:"date" yaml:"date"`
	Excerpt string `json:"excerpt" yaml:"excerpt"`
	Slug    string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Key identifies the post for removal: the slug, or the title when the
// post has no slug.
func (p Post) Key() string {
	if p.Slug != "" {
		return p.Slug
	}
	return p.Title
}

// Validate checks the required fields and length limits and returns the
// first problem found.
func (p Post) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return &ValidationError{Field: "title", Message: "is required"}
	case strings.TrimSpace(p.Excerpt) == "":
		return &ValidationError{Field: "excerpt", Message: "is required"}
	case utf8.RuneCountInString(p.Title) > maxTitleLen:
		return &ValidationError{Field: "title", Message: fmt.Sprintf("is too long (max %d characters)", maxTitleLen)}
	case utf8.RuneCountInString(p.Slug) > maxSlugLen:
		return &ValidationError{Field: "slug", Message: fmt.Sprintf("is too long (max %d characters)", maxSlugLen)}
	case utf8.RuneCountInString(p.Excerpt) > maxExcerptLen:
		return &ValidationError{Field: "excerpt", Message: fmt.Sprintf("is too long (max %d characters)", maxExcerptLen)}
	case utf8.RuneCountInString(p.Content) > maxContentLen:
		return &ValidationError{Field: "content", Message: fmt.Sprintf("is too long (max %d characters)", maxContentLen)}
	}
	return nil
}

// ValidateSeed checks posts loaded from static configuration. Seeds must
// carry a date since there is no meaningful "today" for them.
func ValidateSeed(posts []Post) error {
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("seed post %d: %w", i, err)
		}
		if p.Date.IsZero() {
			return fmt.Errorf("seed post %d: %w", i, &ValidationError{Field: "date", Message: "is required"})
		}
	}
	return nil
}

// DefaultSeed returns the posts the site starts with when no site file
// provides its own.
func DefaultSeed() []Post {
	return []Post{
		{
			Title:   "The Future of Open Source Finance",
			Date:    NewDate(2024, time.January, 15),
			Excerpt: "Exploring how FOSS principles are revolutionizing the financial sector and creating more transparent, accessible financial tools for everyone.",
			Content: "Your full blog post content goes here...",
			Slug:    "future-of-open-source-finance",
		},
		{
			Title:   "Right to Repair in Digital Age",
			Date:    NewDate(2024, time.January, 10),
			Excerpt: "Why device longevity matters more than ever in our digital economy, and how the right to repair movement is shaping sustainable technology practices.",
			Content: "Your full blog post content goes here...",
			Slug:    "right-to-repair-digital-age",
		},
	}
}
