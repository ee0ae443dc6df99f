// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package live

import "portfolio/internal/viewport"

// Client message types. The first message of every connection must be
// a hello.
const (
	MsgHello      = "hello"
	MsgClick      = "click"
	MsgDot        = "dot"
	MsgDotKey     = "dotkey"
	MsgKey        = "key"
	MsgHashChange = "hashchange"
	MsgResize     = "resize"
)

// ClientMessage is an input event forwarded by the page.
type ClientMessage struct {
	Type string `json:"type"`

	// hello and hashchange
	Fragment string `json:"fragment,omitempty"`
	// hello and resize
	Width int `json:"width,omitempty"`
	// hello: ids of the content regions present in the document
	Regions []string `json:"regions,omitempty"`
	// hello
	Capabilities viewport.Capabilities `json:"capabilities"`

	// click
	Href string `json:"href,omitempty"`
	// dot and dotkey
	Section string `json:"section,omitempty"`
	// dotkey and key
	Key string `json:"key,omitempty"`
}

// Operation names sent to the page.
const (
	OpMarkActive        = "markActive"
	OpTitle             = "title"
	OpShow              = "show"
	OpExit              = "exit"
	OpSwap              = "swap"
	OpEnter             = "enter"
	OpFocus             = "focus"
	OpAnnounce          = "announce"
	OpUnannounce        = "unannounce"
	OpScroll            = "scroll"
	OpShapes            = "shapes"
	OpObserveReveal     = "observeReveal"
	OpRevealAll         = "revealAll"
	OpAnimationDuration = "animationDuration"
	OpBlog              = "blog"
)

// Op is one presentation operation for the page to apply.
type Op struct {
	Op string `json:"op"`

	Section  string                  `json:"section,omitempty"`
	Title    string                  `json:"title,omitempty"`
	ID       string                  `json:"id,omitempty"`
	Text     string                  `json:"text,omitempty"`
	Shapes   *viewport.ShapeStyle    `json:"shapes,omitempty"`
	Reveal   *viewport.RevealOptions `json:"reveal,omitempty"`
	Selector string                  `json:"selector,omitempty"`
	Class    string                  `json:"class,omitempty"`
	Duration string                  `json:"duration,omitempty"`

	// blog: the escaped list markup, or Empty for the placeholder
	HTML  string `json:"html,omitempty"`
	Empty bool   `json:"empty,omitempty"`
}
