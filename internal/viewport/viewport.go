// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package viewport holds the cosmetic, viewport-dependent page behaviour:
// background shape tuning with a debounced resize handler, scroll reveal
// animations and the reduced-motion preference.
package viewport

import (
	"errors"
	"fmt"
	"time"

	"portfolio/internal/sched"
)

const (
	// MobileMaxWidth is the widest viewport treated as mobile.
	MobileMaxWidth = 768

	// DefaultResizeQuiet is how long resize events must stop before shapes
	// are recomputed.
	DefaultResizeQuiet = 150 * time.Millisecond

	// ReducedMotionDuration replaces the animation duration when the visitor
	// prefers reduced motion.
	ReducedMotionDuration = "0.01s"

	// RevealSelector matches the elements that fade in on scroll.
	RevealSelector = ".info-item"
	// RevealClass is the end-state class applied to revealed elements.
	RevealClass = "fade-up"
)

// ErrUnsupportedCapability means the browser lacks an API the animated path
// needs; the end state is applied directly instead.
var ErrUnsupportedCapability = errors.New("unsupported capability")

// ShapeStyle is the animation tuning for the decorative background shapes.
type ShapeStyle struct {
	AnimationDuration string  `json:"animationDuration"`
	Opacity           float64 `json:"opacity"`
}

// Shape styles per viewport class.
var (
	MobileShapes  = ShapeStyle{AnimationDuration: "16s", Opacity: 0.03}
	DesktopShapes = ShapeStyle{AnimationDuration: "12s", Opacity: 0.05}
)

// ShapesFor returns the shape style for a viewport width in CSS pixels.
func ShapesFor(width int) ShapeStyle {
	if width <= MobileMaxWidth {
		return MobileShapes
	}
	return DesktopShapes
}

// RevealOptions configures the visibility observer on the client.
type RevealOptions struct {
	Selector   string  `json:"selector"`
	Class      string  `json:"class"`
	Threshold  float64 `json:"threshold"`
	RootMargin string  `json:"rootMargin"`
}

// DefaultReveal observes info items and fades them up when 10% visible.
var DefaultReveal = RevealOptions{
	Selector:   RevealSelector,
	Class:      RevealClass,
	Threshold:  0.1,
	RootMargin: "50px",
}

// Capabilities describes what the visitor's browser reported.
type Capabilities struct {
	IntersectionObserver bool `json:"intersectionObserver"`
	ReducedMotion        bool `json:"reducedMotion"`
}

// Presenter applies viewport effects to a page.
type Presenter interface {
	StyleShapes(style ShapeStyle)
	ObserveReveal(opts RevealOptions)
	RevealAll(selector, class string)
	SetAnimationDuration(d string)
}

// Optimizer recomputes shape styles when the viewport width changes. It must
// be used from callbacks of its scheduler.
type Optimizer struct {
	view     Presenter
	debounce *sched.Debouncer
	width    int
}

// NewOptimizer applies the style for the initial width immediately and
// returns an Optimizer for later resizes.
func NewOptimizer(s sched.Scheduler, view Presenter, width int, quiet time.Duration) *Optimizer {
	if quiet == 0 {
		quiet = DefaultResizeQuiet
	}
	o := &Optimizer{
		view:     view,
		debounce: sched.NewDebouncer(s, quiet),
		width:    width,
	}
	view.StyleShapes(ShapesFor(width))
	return o
}

// Resize records a new width. The recomputation runs once resizes have
// been quiet for the debounce window.
func (o *Optimizer) Resize(width int) {
	o.width = width
	o.debounce.Trigger(func() {
		o.view.StyleShapes(ShapesFor(o.width))
	})
}

// Width returns the last reported width.
func (o *Optimizer) Width() int {
	return o.width
}

// Stop drops any pending recomputation.
func (o *Optimizer) Stop() {
	o.debounce.Cancel()
}

// SetupReveal starts scroll reveal animations. Without visibility
// observation every candidate gets the end-state class at once and an
// error wrapping ErrUnsupportedCapability is returned for logging.
func SetupReveal(view Presenter, caps Capabilities) error {
	if !caps.IntersectionObserver {
		view.RevealAll(DefaultReveal.Selector, DefaultReveal.Class)
		return fmt.Errorf("intersection observer: %w", ErrUnsupportedCapability)
	}
	view.ObserveReveal(DefaultReveal)
	return nil
}

// ApplyMotionPreference shortens animations for visitors who prefer
// reduced motion.
func ApplyMotionPreference(view Presenter, caps Capabilities) {
	if caps.ReducedMotion {
		view.SetAnimationDuration(ReducedMotionDuration)
	}
}
