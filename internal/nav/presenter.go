// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package nav

import (
	"errors"
	"fmt"

	"portfolio/internal/section"
)

// ErrMissingElement means a content region expected by a transition is not
// present on the page. The controller recovers by switching state without
// animating.
var ErrMissingElement = errors.New("missing element")

// MissingElementError names the region that could not be found.
type MissingElementError struct {
	ID string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("%s: #%s", ErrMissingElement, e.ID)
}

func (e *MissingElementError) Unwrap() error {
	return ErrMissingElement
}

// Presenter applies presentation changes to a page. Implementations must not
// block; the controller calls them from its scheduler.
type Presenter interface {
	// HasRegion reports whether the content region for s exists.
	HasRegion(s section.Section) bool
	// MarkActive flags the nav links and dots naming s as current and
	// clears the flag on all others.
	MarkActive(s section.Section)
	// SetTitle sets the document title.
	SetTitle(title string)
	// Show reveals s and hides every other region without animating.
	Show(s section.Section)
	// BeginExit starts the exit animation on the region for s.
	BeginExit(s section.Section)
	// Swap hides every region except s and reveals s.
	Swap(s section.Section)
	// BeginEnter starts the entry animation on the region for s.
	BeginEnter(s section.Section)
	// Focus moves keyboard focus to the region for s.
	Focus(s section.Section)
	// Announce inserts a polite live-region message for assistive tech.
	Announce(id, text string)
	// RemoveAnnouncement removes a message inserted by Announce.
	RemoveAnnouncement(id string)
	// ScrollIntoView smoothly scrolls the region for s into view.
	ScrollIntoView(s section.Section)
}
