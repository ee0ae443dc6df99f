// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package section defines the named views of the portfolio page and the
// ordered set they belong to. The member set is configuration; the order
// drives arrow-key navigation.
package section

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section is one named view of the page (e.g. "home", "blog").
type Section string

// Built-in sections used when no configuration overrides them.
const (
	Home    Section = "home"
	Blog    Section = "blog"
	Contact Section = "contact"
)

// DefaultNames is the section order used when SECTIONS is not configured.
var DefaultNames = []string{string(Home), string(Blog), string(Contact)}

// validName restricts section names to characters that are safe inside an
// element id and a URL fragment.
var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ErrEmptySet is returned when a Set is built without any members.
var ErrEmptySet = errors.New("section set is empty")

// ContentID returns the id of the content region that renders this section.
func (s Section) ContentID() string {
	return string(s) + "-content"
}

// Label returns the human-readable name, e.g. "blog" -> "Blog".
func (s Section) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "-", " "))
}

// String implements fmt.Stringer.
func (s Section) String() string {
	return string(s)
}

// Set is a fixed, ordered collection of sections. It is immutable after
// construction and safe for concurrent use.
type Set struct {
	order []Section
	index map[Section]int
}

// NewSet builds a Set from names in display order. Names are trimmed and
// lowercased; duplicates and names unusable as element ids are rejected.
func NewSet(names ...string) (*Set, error) {
	s := &Set{index: make(map[Section]int, len(names))}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if !validName.MatchString(name) {
			return nil, fmt.Errorf("section %q: invalid name", raw)
		}
		sec := Section(name)
		if _, dup := s.index[sec]; dup {
			return nil, fmt.Errorf("section %q: duplicate", name)
		}
		s.index[sec] = len(s.order)
		s.order = append(s.order, sec)
	}
	if len(s.order) == 0 {
		return nil, ErrEmptySet
	}
	return s, nil
}

// MustSet is like NewSet but panics on error. Intended for tests and
// package-level defaults.
func MustSet(names ...string) *Set {
	s, err := NewSet(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the built-in home/blog/contact set.
func Default() *Set {
	return MustSet(DefaultNames...)
}

// Parse returns the section with the given name if it is a member.
func (s *Set) Parse(name string) (Section, bool) {
	sec := Section(name)
	_, ok := s.index[sec]
	return sec, ok
}

// FromFragment resolves a URL fragment ("#blog" or "blog") to a member.
func (s *Set) FromFragment(fragment string) (Section, bool) {
	name := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if name == "" {
		return "", false
	}
	return s.Parse(name)
}

// Contains reports whether sec is a member of the set.
func (s *Set) Contains(sec Section) bool {
	_, ok := s.index[sec]
	return ok
}

// First returns the first section, used as the default active section.
func (s *Set) First() Section {
	return s.order[0]
}

// Prev returns the section before cur. There is no wraparound.
func (s *Set) Prev(cur Section) (Section, bool) {
	i, ok := s.index[cur]
	if !ok || i == 0 {
		return "", false
	}
	return s.order[i-1], true
}

// Next returns the section after cur. There is no wraparound.
func (s *Set) Next(cur Section) (Section, bool) {
	i, ok := s.index[cur]
	if !ok || i == len(s.order)-1 {
		return "", false
	}
	return s.order[i+1], true
}

// All returns a copy of the sections in display order.
func (s *Set) All() []Section {
	out := make([]Section, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of sections.
func (s *Set) Len() int {
	return len(s.order)
}

// DocumentTitle builds the <title> text shown while sec is active.
func DocumentTitle(sec Section, owner string) string {
	if sec == "" {
		return owner + " | Portfolio"
	}
	return sec.Label() + " - " + owner + " | Portfolio"
}
